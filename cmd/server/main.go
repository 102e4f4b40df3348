// Package main provides the entry point for the OpenAlex Explorer HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/scholarex/openalex-explorer/internal/config"
	"github.com/scholarex/openalex-explorer/internal/observability"
	"github.com/scholarex/openalex-explorer/internal/openalex"
	"github.com/scholarex/openalex-explorer/internal/server/httpapi"
	"github.com/scholarex/openalex-explorer/internal/tools"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Set up structured logging.
	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger = logger.With().Str("component", "server").Logger()
	logger.Info().Str("version", version).Msg("openalex-explorer starting")

	// Set up context with graceful shutdown via OS signals.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics("openalex_explorer")
	}

	// Create the OpenAlex client and retrievers.
	client := openalex.New(openalex.Config{
		BaseURL:        cfg.OpenAlex.BaseURL,
		Email:          cfg.OpenAlex.Email,
		Timeout:        cfg.OpenAlex.Timeout,
		Retries:        cfg.OpenAlex.Retries,
		DefaultPerPage: cfg.OpenAlex.DefaultPerPage,
		MaxPerPage:     cfg.OpenAlex.MaxPerPage,
		RateLimit:      cfg.OpenAlex.RateLimit,
		BurstSize:      cfg.OpenAlex.BurstSize,
	}, logger, metrics)

	svc, err := tools.NewService(
		openalex.NewPublications(client, logger),
		openalex.NewAuthors(client, logger),
		openalex.NewConcepts(client, logger),
		logger,
		metrics,
	)
	if err != nil {
		return fmt.Errorf("create tool service: %w", err)
	}

	httpSrv := httpapi.New(httpapi.Config{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.HTTPPort,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, svc, logger)

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsServer = httpapi.NewMetricsServer(cfg.Server.Host, cfg.Server.MetricsPort)
	}

	// Channel to collect server errors.
	errCh := make(chan error, 2)

	go func() {
		if err := httpSrv.Start(); err != nil {
			errCh <- err
		}
	}()

	if metricsServer != nil {
		go func() {
			logger.Info().Str("addr", metricsServer.Addr).Msg("metrics server listening")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	logger.Info().
		Str("http_address", cfg.Server.HTTPAddress()).
		Msg("openalex-explorer is ready")

	// Wait for shutdown signal or server error.
	select {
	case <-ctx.Done():
		logger.Info().Msg("received shutdown signal")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return err
	}

	// Graceful shutdown.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown error")
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("metrics server shutdown error")
		}
	}

	logger.Info().Msg("openalex-explorer stopped")
	return nil
}
