// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"

	"github.com/starford/laguz/internal/api"
	"github.com/starford/laguz/internal/mcpserver"
	"github.com/starford/laguz/internal/noteservice"
	"github.com/starford/laguz/internal/sse"
	"github.com/starford/laguz/internal/store"
)

func newLogger(cfg *Config) *slog.Logger {
	var handler slog.Handler
	if cfg.App.LogFormat == LogFormatText {
		handler = tint.NewHandler(os.Stdout, &tint.Options{Level: cfg.App.LogLevel})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.App.LogLevel})
	}
	return slog.New(handler)
}

// Run starts the HTTP application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize SQLite store (applies migrations), unless one was injected.
	db := app.store
	if db == nil {
		sqlDB, err := store.Open(cfg.SQLite.Path)
		if err != nil {
			return fmt.Errorf("init store: %w", err)
		}
		defer sqlDB.Close()
		db = sqlDB
	}

	// SSE broker, scoped to the authenticated user of each connection.
	broker := sse.NewBroker(api.UserID)
	defer broker.Close()

	// Build the note service and API router.
	svc := noteservice.NewService(db, broker)
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), []byte(cfg.Auth.Secret), cfg.Auth.DevUserID, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP starts the MCP stdio server with the given options. All tool calls
// run as the configured MCP user. Logs go to stderr so stdout stays clean
// for the MCP transport.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	db := app.store
	if db == nil {
		sqlDB, err := store.Open(cfg.SQLite.Path)
		if err != nil {
			return fmt.Errorf("init store: %w", err)
		}
		defer sqlDB.Close()
		db = sqlDB
	}

	svc := noteservice.NewService(db, nil)
	srv := mcpserver.New(svc, cfg.MCP.UserID)

	logger.Info("Starting MCP server on stdio", slog.Int64("user_id", cfg.MCP.UserID))
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
