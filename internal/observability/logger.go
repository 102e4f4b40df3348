// Package observability provides structured logging and Prometheus metrics
// for the OpenAlex Explorer service. Loggers and metrics are explicit handles
// passed into components at construction, never package-level singletons.
package observability

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LoggingConfig contains logger configuration options.
type LoggingConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error, fatal, panic).
	Level string

	// Format is the output format (json, console, pretty).
	Format string

	// Output is the output destination (stdout, stderr).
	Output string

	// AddSource adds source file and line number to log entries.
	AddSource bool

	// TimeFormat is the time format for timestamps.
	TimeFormat string
}

// DefaultLoggingConfig returns a LoggingConfig with sensible defaults.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:      "info",
		Format:     "json",
		Output:     "stdout",
		AddSource:  false,
		TimeFormat: time.RFC3339,
	}
}

// NewLogger creates a new zerolog logger based on configuration.
func NewLogger(cfg LoggingConfig) zerolog.Logger {
	var output io.Writer

	switch strings.ToLower(cfg.Output) {
	case "stdout":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		output = os.Stdout
	}

	if cfg.TimeFormat != "" {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	} else {
		zerolog.TimeFieldFormat = time.RFC3339
	}

	// Use console writer for pretty output in development
	if strings.ToLower(cfg.Format) == "console" || strings.ToLower(cfg.Format) == "pretty" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: zerolog.TimeFieldFormat,
		}
	}

	logger := zerolog.New(output).With().Timestamp()

	if cfg.AddSource {
		logger = logger.Caller()
	}

	log := logger.Logger()

	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)
	log = log.Level(level)

	return log
}

// parseLevel converts a string log level to zerolog.Level.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithToolContext adds tool invocation fields to a logger.
func WithToolContext(logger zerolog.Logger, tool, requestID string) zerolog.Logger {
	return logger.With().
		Str("tool", tool).
		Str("request_id", requestID).
		Logger()
}

// WithQueryContext adds search query fields to a logger.
func WithQueryContext(logger zerolog.Logger, query string, maxResults int) zerolog.Logger {
	return logger.With().
		Str("query", query).
		Int("max_results", maxResults).
		Logger()
}

// WithEntityContext adds identifier lookup fields to a logger.
func WithEntityContext(logger zerolog.Logger, entity, id string) zerolog.Logger {
	return logger.With().
		Str("entity", entity).
		Str("entity_id", id).
		Logger()
}
