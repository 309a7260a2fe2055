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

	"eventguard/api"
	"eventguard/config"
	"eventguard/logging"
	"eventguard/service"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal("api server failed", "err", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := service.Build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build service: %w", err)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logging.Warn("failed to close collaborators", "err", err)
		}
	}()

	deps := api.Deps{Runner: svc.Runner, Metrics: svc.Metrics}
	if svc.Archiver != nil {
		deps.Reports = svc.Archiver
	}
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logging.Info("starting API server", "addr", srv.Addr)
	logging.Info("API endpoints available",
		"health", "GET /api/health",
		"canonical", "POST /api/canonical/{url,event-key,speaker-key}",
		"deduplication", "POST /api/deduplication/{events,speakers}",
		"localisation", "POST /api/localisation/{assert,query}",
		"pipeline", "POST /api/pipeline/{run,run-all}",
		"reports", "GET /api/reports[/:date/:id]",
		"metrics", "GET /metrics",
	)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}
	logging.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("shutdown error", "err", err)
	}
	logging.Info("server stopped")
	return nil
}
