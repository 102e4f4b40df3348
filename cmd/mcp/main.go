// Package main provides the stdio MCP entry point for the OpenAlex Explorer.
// Logs go to stderr so stdout stays reserved for the protocol stream.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/scholarex/openalex-explorer/internal/config"
	"github.com/scholarex/openalex-explorer/internal/observability"
	"github.com/scholarex/openalex-explorer/internal/openalex"
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
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logCfg := observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     "stderr",
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	}
	logger := observability.NewLogger(logCfg).With().Str("component", "mcp").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := openalex.New(openalex.Config{
		BaseURL:        cfg.OpenAlex.BaseURL,
		Email:          cfg.OpenAlex.Email,
		Timeout:        cfg.OpenAlex.Timeout,
		Retries:        cfg.OpenAlex.Retries,
		DefaultPerPage: cfg.OpenAlex.DefaultPerPage,
		MaxPerPage:     cfg.OpenAlex.MaxPerPage,
		RateLimit:      cfg.OpenAlex.RateLimit,
		BurstSize:      cfg.OpenAlex.BurstSize,
	}, logger, nil)

	svc, err := tools.NewService(
		openalex.NewPublications(client, logger),
		openalex.NewAuthors(client, logger),
		openalex.NewConcepts(client, logger),
		logger,
		nil,
	)
	if err != nil {
		return fmt.Errorf("create tool service: %w", err)
	}

	server := tools.NewMCPServer(svc, version)
	logger.Info().Str("version", version).Msg("mcp server starting on stdio")

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
