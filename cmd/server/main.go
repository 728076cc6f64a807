package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/commentstream/backend/internal/config"
	"github.com/commentstream/backend/internal/logging"
	"github.com/commentstream/backend/internal/metrics"
	"github.com/commentstream/backend/internal/router"
	scrub "github.com/commentstream/backend/internal/sentry"
	"github.com/commentstream/backend/internal/store"
	"github.com/commentstream/backend/internal/stream"
)

func main() {
	// Initialize structured logging (reads LOGGING_LEVEL env var)
	logging.Initialize()

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Error tracking (optional)
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.SentryEnvironment,
			BeforeSend:  scrub.ScrubEvent,
		})
		if err != nil {
			slog.Error("failed to initialize sentry", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer sentry.Flush(2 * time.Second)
	}

	// Metrics
	metrics.Register()

	// Stores and streaming core
	comments := store.NewCommentStore(cfg.CommentCapacity)
	registry := stream.NewRegistry(cfg.IdleTimeout)
	broadcaster := stream.NewBroadcaster(registry)

	keepAlive := stream.NewKeepAlive(registry, broadcaster, cfg.HeartbeatInterval)
	keepAlive.Start()

	// Create router
	r := router.New(cfg, comments, registry, broadcaster)

	addr := ":" + cfg.Port
	server := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		slog.Info("starting server", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal, then drain: stop pinging, close every live
	// connection, stop accepting requests.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	slog.Info("shutting down")
	keepAlive.Stop()
	registry.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", slog.String("error", err.Error()))
	}
}
