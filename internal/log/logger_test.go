package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fintrack/internal/core"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestErrorType(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&core.ValidationError{Field: "amount", Err: core.ErrInvalidAmount}, ErrorTypeValidation},
		{&core.AuthError{Reason: "no session"}, ErrorTypeAuth},
		{&core.SessionError{Op: "delete", Err: errors.New("down")}, ErrorTypeSession},
		{core.Persistence("insert", errors.New("disk full")), ErrorTypePersistence},
		{errors.New("other"), ErrorTypeInternal},
	}
	for _, tc := range cases {
		if got := ErrorType(tc.err); got != tc.want {
			t.Errorf("ErrorType(%v) = %s, want %s", tc.err, got, tc.want)
		}
	}
}

func TestMiddlewareTagsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Output: &buf})

	type key struct{}
	requestID := func(ctx context.Context) string {
		id, _ := ctx.Value(key{}).(string)
		return id
	}

	h := Middleware(logger, requestID)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		LogError(r.Context(), "boom", errors.New("x"), ComponentHTTP, OpLogin, NewFields().WithUser("u1"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), key{}, "req_1"))
	h.ServeHTTP(httptest.NewRecorder(), req)

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("invalid json log line %q: %v", line, err)
	}
	if entry[FieldRequestID] != "req_1" || entry[FieldUserID] != "u1" || entry[FieldOperation] != OpLogin {
		t.Fatalf("unexpected log entry: %v", entry)
	}
	if entry[FieldErrorType] != ErrorTypeInternal {
		t.Fatalf("expected internal error type, got %v", entry[FieldErrorType])
	}
}

func TestFromContextDefault(t *testing.T) {
	if l := FromContext(context.Background()); l == nil || l.Component() != "unknown" {
		t.Fatalf("expected fallback logger, got %+v", l)
	}
}
