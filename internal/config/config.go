// Package config provides configuration management for the OpenAlex Explorer service.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the OpenAlex Explorer service.
type Config struct {
	// Server contains HTTP server settings.
	Server ServerConfig `mapstructure:"server"`
	// OpenAlex contains OpenAlex API client settings.
	OpenAlex OpenAlexConfig `mapstructure:"openalex"`
	// Logging contains structured logging settings.
	Logging LoggingConfig `mapstructure:"logging"`
	// Metrics contains Prometheus metrics exposure settings.
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	// Host is the address to bind the server to (default: 0.0.0.0).
	Host string `mapstructure:"host"`
	// HTTPPort is the HTTP server port (default: 7861).
	HTTPPort int `mapstructure:"http_port"`
	// MetricsPort is the metrics server port (default: 9091).
	MetricsPort int `mapstructure:"metrics_port"`
	// ReadTimeout is the maximum duration for reading the request.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the maximum duration for writing the response.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// OpenAlexConfig holds OpenAlex API client configuration.
type OpenAlexConfig struct {
	// BaseURL is the OpenAlex API base URL.
	BaseURL string `mapstructure:"base_url"`
	// Email is the operator contact for the polite pool. Providing it grants
	// preferential rate limits; its absence is a warning, not an error.
	Email string `mapstructure:"email"`
	// Timeout is the per-request timeout.
	Timeout time.Duration `mapstructure:"timeout"`
	// Retries is the number of retry attempts after the first request.
	Retries int `mapstructure:"retries"`
	// DefaultPerPage is the page size used when the caller does not ask for one.
	DefaultPerPage int `mapstructure:"default_per_page"`
	// MaxPerPage is the remote-imposed page size ceiling. Larger requests are
	// silently capped to this value.
	MaxPerPage int `mapstructure:"max_per_page"`
	// RateLimit is the maximum requests per second.
	RateLimit float64 `mapstructure:"rate_limit"`
	// BurstSize is the maximum burst of requests allowed.
	BurstSize int `mapstructure:"burst_size"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level (trace, debug, info, warn, error, fatal, panic).
	Level string `mapstructure:"level"`
	// Format is the log format (json, console).
	Format string `mapstructure:"format"`
	// Output is the log output destination (stdout, stderr).
	Output string `mapstructure:"output"`
	// AddSource adds source file and line to log output.
	AddSource bool `mapstructure:"add_source"`
	// TimeFormat is the timestamp format.
	TimeFormat string `mapstructure:"time_format"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	// Enabled enables metrics collection and exposure.
	Enabled bool `mapstructure:"enabled"`
	// Path is the HTTP path for the metrics endpoint.
	Path string `mapstructure:"path"`
}

// HTTPAddress returns the HTTP server address.
func (c *ServerConfig) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.HTTPPort)
}

// MetricsAddress returns the metrics server address.
func (c *ServerConfig) MetricsAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.MetricsPort)
}

// Load loads configuration from environment variables and config files.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Read from environment variables.
	v.SetEnvPrefix("OPENALEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if present.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/openalex-explorer")

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use env vars and defaults.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 7861)
	v.SetDefault("server.metrics_port", 9091)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")

	// OpenAlex defaults
	v.SetDefault("openalex.base_url", "https://api.openalex.org")
	v.SetDefault("openalex.email", "")
	v.SetDefault("openalex.timeout", "30s")
	v.SetDefault("openalex.retries", 3)
	v.SetDefault("openalex.default_per_page", 25)
	v.SetDefault("openalex.max_per_page", 50)
	v.SetDefault("openalex.rate_limit", 10.0)
	v.SetDefault("openalex.burst_size", 10)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.Server.HTTPPort)
	}
	if c.Server.MetricsPort <= 0 || c.Server.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port: %d", c.Server.MetricsPort)
	}

	if c.OpenAlex.BaseURL == "" {
		return fmt.Errorf("openalex base_url is required")
	}
	if _, err := url.Parse(c.OpenAlex.BaseURL); err != nil {
		return fmt.Errorf("invalid openalex base_url: %w", err)
	}
	if c.OpenAlex.Retries < 0 {
		return fmt.Errorf("openalex retries must not be negative: %d", c.OpenAlex.Retries)
	}
	if c.OpenAlex.Timeout <= 0 {
		return fmt.Errorf("openalex timeout must be positive: %s", c.OpenAlex.Timeout)
	}
	if c.OpenAlex.MaxPerPage <= 0 {
		return fmt.Errorf("openalex max_per_page must be positive: %d", c.OpenAlex.MaxPerPage)
	}
	if c.OpenAlex.DefaultPerPage <= 0 || c.OpenAlex.DefaultPerPage > c.OpenAlex.MaxPerPage {
		return fmt.Errorf("openalex default_per_page must be in [1, %d]: %d",
			c.OpenAlex.MaxPerPage, c.OpenAlex.DefaultPerPage)
	}
	if c.OpenAlex.RateLimit <= 0 {
		return fmt.Errorf("openalex rate_limit must be positive: %f", c.OpenAlex.RateLimit)
	}

	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	return nil
}
