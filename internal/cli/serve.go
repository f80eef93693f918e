package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/ekaksh/internal/assistant"
	"github.com/msomdec/ekaksh/internal/config"
	"github.com/msomdec/ekaksh/internal/handler"
	"github.com/msomdec/ekaksh/internal/metrics"
	"github.com/msomdec/ekaksh/internal/repository"
	"github.com/msomdec/ekaksh/internal/service"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, opts.cfg)
		},
	}
}

// app is a fully wired server and the resources it holds.
type app struct {
	server  *http.Server
	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Error("release resource", "error", err)
		}
	}
}

// newApp opens the stores, applies migrations, builds the assistant and
// wires the HTTP handler. The caller must Close the app.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	store, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.closers = append(a.closers, store.DB.Close)

	if err := store.DB.Migrate(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	sessionStore, closeSessions, err := repository.OpenSessions(cfg.Session)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open session store: %w", err)
	}
	a.closers = append(a.closers, closeSessions)

	llm, closeLLM, err := assistant.New(ctx, cfg.Assistant)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create assistant: %w", err)
	}
	a.closers = append(a.closers, closeLLM)

	limiter := service.NewTokenBucket(cfg.RateLimit.Rate, cfg.RateLimit.Burst)
	a.closers = append(a.closers, func() error { limiter.Stop(); return nil })

	m := metrics.New()

	h := handler.NewHandler(handler.Deps{
		Auth:         service.NewAuthService(store.Users, cfg.Auth.BcryptCost, m),
		Sessions:     service.NewSessionService(sessionStore, cfg.Auth.JWTSecret, cfg.Session.TTL),
		Assistant:    service.NewAssistantRouter(llm, cfg.Assistant.Timeout, m),
		DB:           store.DB,
		Limiter:      limiter,
		Metrics:      m,
		CookieSecure: cfg.Auth.CookieSecure,
	})

	a.server = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}
	return a, nil
}

// serve runs the server until ctx is cancelled, then shuts down gracefully.
func serve(ctx context.Context, cfg *config.Config) error {
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
