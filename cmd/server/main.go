// Command server starts the work report analysis HTTP server.
package main

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

	"github.com/north-leaf-W/Work-report-agent-system/internal/adapter/observability"
	"github.com/north-leaf-W/Work-report-agent-system/internal/app"
	"github.com/north-leaf-W/Work-report-agent-system/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	if err := os.MkdirAll(cfg.UploadDir, 0o750); err != nil {
		slog.Error("upload dir not writable", slog.String("dir", cfg.UploadDir), slog.Any("error", err))
		os.Exit(1)
	}
	if !cfg.LLMConfigured() {
		slog.Warn("no API key configured; analyses will use the rule-based fallback")
	}
	slog.Info("llm gateway selected",
		slog.String("provider", cfg.LLMProvider),
		slog.Bool("has_api_key", cfg.LLMConfigured()),
		slog.String("analysis_model", cfg.AnalysisModel),
		slog.String("scoring_model", cfg.ScoringModel),
		slog.String("extraction_model", cfg.ExtractionModel))

	srv := app.BuildServer(cfg)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	if err := srvHTTP.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", slog.Any("error", err))
	}
}
