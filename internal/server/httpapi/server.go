// Package httpapi serves the REST surface of the explorer: publication,
// author and concept search plus health and tool discovery endpoints.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/scholarex/openalex-explorer/internal/tools"
)

// Config holds the HTTP server configuration.
type Config struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server wraps the HTTP listener and its routes.
type Server struct {
	config Config
	server *http.Server
	logger zerolog.Logger
}

// New creates an HTTP server exposing the tool service.
func New(cfg Config, svc *tools.Service, logger zerolog.Logger) *Server {
	logger = logger.With().Str("component", "http-server").Logger()
	h := &handlers{service: svc, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(jsonContentType)

	r.Get("/healthz", h.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/papers", h.searchPapers)
		// DOIs contain slashes, so the lookup takes the rest of the path.
		r.Get("/papers/*", h.getPaperByDOI)
		r.Get("/authors", h.searchAuthors)
		r.Get("/concepts", h.searchConcepts)
		r.Get("/tools", h.listTools)
	})

	return &Server{
		config: cfg,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      r,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// Handler returns the root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins serving requests. It blocks until the listener stops.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("http server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// NewMetricsServer creates a separate listener for Prometheus scrapes.
func NewMetricsServer(host string, port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, port),
		Handler: mux,
	}
}
