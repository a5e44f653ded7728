package http

import (
	"net/http"

	"fintrack/internal/log"
)

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "login.html", pageData{Title: "Login", Alert: r.URL.Query().Get("alert")})
}

func (s *Server) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "signup.html", pageData{Title: "Sign up"})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		log.LogError(ctx, "Failed to parse signup body", err, log.ComponentAuth, log.OpSignup, nil)
		writeText(w, http.StatusInternalServerError, msgSignupFailed)
		return
	}

	id, err := s.creds.Register(ctx, p.Get("email"), p.Raw("password"))
	if err != nil {
		log.LogError(ctx, "User registration failed", err, log.ComponentAuth, log.OpSignup, nil)
		writeText(w, statusFor(err), msgSignupFailed)
		return
	}

	log.FromContext(ctx).InfoContext(ctx, "User registered", log.FieldUserID, id)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		log.LogError(ctx, "Failed to parse login body", err, log.ComponentAuth, log.OpLogin, nil)
		writeText(w, http.StatusInternalServerError, msgLoginFailed)
		return
	}

	user, err := s.creds.Verify(ctx, p.Get("email"), p.Raw("password"))
	if err != nil {
		log.LogError(ctx, "Credential check failed", err, log.ComponentAuth, log.OpLogin, nil)
		writeText(w, http.StatusInternalServerError, msgLoginFailed)
		return
	}
	if user == nil {
		log.FromContext(ctx).InfoContext(ctx, "Rejected login attempt", log.FieldOperation, log.OpLogin)
		writeText(w, http.StatusOK, msgInvalidLogin)
		return
	}

	if err := s.sessions.Login(w, r, user.ID); err != nil {
		log.LogError(ctx, "Failed to start session", err, log.ComponentSession, log.OpLogin,
			log.NewFields().WithUser(user.ID))
		writeText(w, http.StatusInternalServerError, msgLoginFailed)
		return
	}

	log.FromContext(ctx).InfoContext(ctx, "User logged in", log.FieldUserID, user.ID)
	http.Redirect(w, r, "/overview", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.sessions.Logout(w, r); err != nil {
		log.LogError(ctx, "Failed to destroy session", err, log.ComponentSession, log.OpLogout, nil)
		writeText(w, http.StatusInternalServerError, msgLogoutFailed)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
