package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/auth"
	"fintrack/internal/backend"
	"fintrack/internal/cache"
	"fintrack/internal/config"
	apphttp "fintrack/internal/http"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/session"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: log.ComponentApp,
		Output:    os.Stdout,
	})
	log.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", log.FieldError, err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server exited with error", log.FieldError, err.Error())
		stop()
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

// run serves until ctx is cancelled, then shuts the server down and
// releases the backend and session store.
func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	factory := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger)
	result, err := factory.CreateBackend(ctx, backendCfg)
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}
	defer func() {
		if result.Cleanup == nil {
			return
		}
		if err := result.Cleanup(); err != nil {
			logger.Warn("Backend cleanup failed", log.FieldError, err.Error())
		}
	}()

	caches := cache.NewManager(logger.WithComponent(log.ComponentCache).Logger)
	defer caches.Stop()

	store, closeStore, err := newSessionStore(ctx, cfg, caches)
	if err != nil {
		return err
	}
	defer closeStore()

	creds := auth.NewCredentialService(result.Backend, cfg.BcryptCost)
	sessions := session.NewManager(store, cfg.SessionCookieName, cfg.SessionTTL,
		session.WithUserLookup(creds),
		session.WithSecureCookie(cfg.SessionCookieSecure))

	srv, err := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Logger:       logger.WithComponent(log.ComponentHTTP),
		Credentials:  creds,
		Sessions:     sessions,
		Transactions: services.NewTransactionService(result.Backend, result.Publisher),
		Summaries:    services.NewSummaryService(result.Backend, result.Backend),
		Ready:        result.Backend.Ping,
	})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting fintrack server",
			"port", cfg.Port,
			log.FieldBackend, cfg.DataBackend,
			"session_backend", cfg.SessionBackend,
			"events", cfg.AMQPURL != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on :%s: %w", cfg.Port, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}

		m := srv.Metrics()
		logger.Info("Request totals",
			"total_requests", m.TotalRequests,
			"client_errors", m.ClientErrors,
			"server_errors", m.ServerErrors)
		return nil
	})

	return g.Wait()
}

// newSessionStore returns the configured session store and a release func.
func newSessionStore(ctx context.Context, cfg *config.Config, caches *cache.Manager) (session.Store, func(), error) {
	if cfg.SessionBackend == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		store := session.NewRedisStore(client)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return store, func() { _ = client.Close() }, nil
	}

	store := session.NewMemoryStore(cfg.SessionMaxEntries, cfg.SessionTTL)
	caches.Register("sessions", store)
	caches.StartCleanup(5 * time.Minute)
	return store, func() {}, nil
}
