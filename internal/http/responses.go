package http

import (
	"bytes"
	"encoding/json"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// Response texts. Clients match on these exactly.
const (
	msgUnauthorized      = "Unauthorized"
	msgInvalidLogin      = "Invalid email or password"
	msgSignupFailed      = "Error during user registration"
	msgLoginFailed       = "Error during login"
	msgSubmissionFailed  = "Error during transaction submission"
	msgLogoutFailed      = "Error logging out"
	msgOverviewFailed    = "Error fetching overview"
	msgChartFailed       = "Error fetching expenses by category"
	msgMonthlyFailed     = "Error fetching monthly overview"
	alertTransactionDone = "/addTransaction?alert=Transaction%20added%20successfully%21"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.LogError(r.Context(), "Failed to encode JSON response", err, log.ComponentHTTP, "encode", nil)
		writeText(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeJSONError(w http.ResponseWriter, r *http.Request, msg string) {
	writeJSON(w, r, http.StatusInternalServerError, errorBody{Error: msg})
}

// statusFor maps the error taxonomy onto a response status.
func statusFor(err error) int {
	if core.IsAuth(err) {
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func unauthorized(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusUnauthorized, msgUnauthorized)
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusFound)
}
