// Package session maps an opaque cookie token to the id of a logged-in user.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"fintrack/internal/core"
)

const (
	DefaultCookieName = "fintrack_session"
	DefaultTTL        = 24 * time.Hour
	tokenBytes        = 32
)

type contextKey struct{}

// UserLookup resolves a session's user id against the credential store.
// A nil user with a nil error means the account no longer exists.
type UserLookup interface {
	UserByID(ctx context.Context, id string) (*core.User, error)
}

type Manager struct {
	store      Store
	cookieName string
	secure     bool
	ttl        time.Duration
	users      UserLookup
	now        func() time.Time
}

type Option func(*Manager)

// WithUserLookup makes RequireUser reject sessions whose user is gone.
func WithUserLookup(users UserLookup) Option {
	return func(m *Manager) { m.users = users }
}

func WithSecureCookie(secure bool) Option {
	return func(m *Manager) { m.secure = secure }
}

func NewManager(store Store, cookieName string, ttl time.Duration, opts ...Option) *Manager {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Manager{
		store:      store,
		cookieName: cookieName,
		ttl:        ttl,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login starts a new session for userID, discarding any session already
// attached to r.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, userID string) error {
	ctx := r.Context()
	if old := m.token(r); old != "" {
		if err := m.store.Delete(ctx, old); err != nil {
			slog.WarnContext(ctx, "Failed to discard previous session", "error", err)
		}
	}

	token, err := newToken()
	if err != nil {
		return &core.SessionError{Op: "generate token", Err: err}
	}
	rec := Record{UserID: userID, CreatedAt: m.now().UTC()}
	if err := m.store.Set(ctx, token, rec, m.ttl); err != nil {
		return &core.SessionError{Op: "store session", Err: err}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// CurrentUser returns the user id bound to the request's session.
func (m *Manager) CurrentUser(r *http.Request) (string, bool) {
	token := m.token(r)
	if token == "" {
		return "", false
	}
	rec, err := m.store.Get(r.Context(), token)
	if err != nil {
		slog.WarnContext(r.Context(), "Session lookup failed", "error", err)
		return "", false
	}
	if rec == nil || rec.UserID == "" {
		return "", false
	}
	return rec.UserID, true
}

func (m *Manager) IsAuthenticated(r *http.Request) bool {
	_, ok := m.CurrentUser(r)
	return ok
}

// Logout destroys the request's session and expires the cookie. Without a
// session it only clears the cookie.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	if token := m.token(r); token != "" {
		if err := m.store.Delete(r.Context(), token); err != nil {
			return &core.SessionError{Op: "destroy session", Err: err}
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// RequireUser runs next with the session user id in the request context,
// or onMissing when there is no valid session.
func (m *Manager) RequireUser(onMissing http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := m.CurrentUser(r)
			if ok && m.users != nil {
				ok = m.userExists(r.Context(), userID)
			}
			if !ok {
				onMissing(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func (m *Manager) userExists(ctx context.Context, userID string) bool {
	u, err := m.users.UserByID(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "Session user lookup failed", "user_id", userID, "error", err)
		return false
	}
	return u != nil
}

func (m *Manager) token(r *http.Request) string {
	c, err := r.Cookie(m.cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserIDFromContext returns the id stored by RequireUser.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && id != ""
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(b), nil
}
