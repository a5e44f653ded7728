// Package http serves the pages and JSON endpoints of the application.
package http

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
	"fintrack/internal/session"
	appweb "fintrack/web"
)

// Credentials registers and verifies users.
type Credentials interface {
	Register(ctx context.Context, email, password string) (string, error)
	Verify(ctx context.Context, email, password string) (*core.User, error)
}

// TransactionCreator stores submitted transactions.
type TransactionCreator interface {
	Create(ctx context.Context, userID string, in services.TransactionInput) (string, error)
}

// SummaryReader serves the aggregated views.
type SummaryReader interface {
	MonthlySummary(ctx context.Context, userID string, month core.Month) (core.MonthlySummary, error)
	CategoryBreakdown(ctx context.Context, userID string, month core.Month) ([]core.CategoryAmount, error)
	AllMonthsSummary(ctx context.Context, userID string) ([]core.MonthTotals, error)
}

// Deps are the collaborators a Server routes requests to.
type Deps struct {
	Logger       *log.Logger
	Credentials  Credentials
	Sessions     *session.Manager
	Transactions TransactionCreator
	Summaries    SummaryReader
	// Ready backs /readyz. Nil means always ready.
	Ready func(ctx context.Context) error
	// Now defaults to time.Now.
	Now func() time.Time
}

type Server struct {
	http.Server
	templates    *template.Template
	logger       *log.Logger
	creds        Credentials
	sessions     *session.Manager
	transactions TransactionCreator
	summaries    SummaryReader
	ready        func(ctx context.Context) error
	now          func() time.Time
	tracer       *trace.Middleware
}

// NewServer parses the embedded templates and wires the routes.
func NewServer(addr string, deps Deps) (*Server, error) {
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP)
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	s := &Server{
		templates:    t,
		logger:       logger,
		creds:        deps.Credentials,
		sessions:     deps.Sessions,
		transactions: deps.Transactions,
		summaries:    deps.Summaries,
		ready:        deps.Ready,
		now:          now,
		tracer:       trace.NewMiddleware(nil),
	}

	handler, err := s.routes()
	if err != nil {
		return nil, err
	}
	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.tracer.Middleware)
	r.Use(log.Middleware(s.logger, trace.GetRequestID))
	r.Use(middleware.Recoverer)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)

	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}
	r.With(security.StaticAssetMiddleware(3600)).
		Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/", s.handleLoginPage)
	r.Get("/signup", s.handleSignupPage)
	r.Post("/signup", s.handleSignup)
	r.Post("/login", s.handleLogin)
	r.Get("/logout", s.handleLogout)

	// pages send anonymous visitors back to the login page
	r.Group(func(r chi.Router) {
		r.Use(security.NoStore)
		r.Use(s.sessions.RequireUser(redirectToLogin))
		r.Get("/addTransaction", s.handleAddTransactionPage)
		r.Get("/overview", s.handleOverviewPage)
		r.Get("/charts", s.handleChartsPage)
	})

	// data endpoints answer 401 instead
	r.Group(func(r chi.Router) {
		r.Use(security.NoStore)
		r.Use(s.sessions.RequireUser(unauthorized))
		r.Post("/addTransaction", s.handleAddTransaction)
		r.Get("/overview-data", s.handleOverviewData)
		r.Get("/chart", s.handleChart)
		r.Get("/monthly-overview", s.handleMonthlyOverview)
	})

	return r, nil
}

// Metrics reports request counters collected by the tracing middleware.
func (s *Server) Metrics() trace.Metrics {
	return s.tracer.GetMetrics()
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "ok")
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err.Error())
			writeText(w, http.StatusServiceUnavailable, "not ready")
			return
		}
	}
	writeText(w, http.StatusOK, "ready")
}

type pageData struct {
	Title string
	Alert string
	Month string
	Today string
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		fields := log.NewFields()
		fields["template"] = name
		log.LogError(r.Context(), "Template execution failed", err, log.ComponentTemplate, log.OpRender, fields)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
