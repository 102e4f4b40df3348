package openalex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/scholarex/openalex-explorer/internal/domain"
	"github.com/scholarex/openalex-explorer/internal/observability"
)

const (
	// DefaultBaseURL is the default OpenAlex API base URL.
	DefaultBaseURL = "https://api.openalex.org"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRetries is the default number of retry attempts after the
	// first request.
	DefaultRetries = 3

	// DefaultPerPage is the page size used when the caller does not ask
	// for one.
	DefaultPerPage = 25

	// DefaultMaxPerPage is the page size ceiling. Requests for more are
	// silently capped, never rejected.
	DefaultMaxPerPage = 50

	// DefaultRateLimit is the default rate limit in requests per second.
	// The OpenAlex polite pool (with email) allows higher rates.
	DefaultRateLimit = 10.0

	// DefaultBurstSize is the default burst size for rate limiting.
	DefaultBurstSize = 10

	// sourceName labels errors and log lines originating from upstream.
	sourceName = "OpenAlex"

	// maxBodyBytes bounds response decoding to prevent resource exhaustion.
	maxBodyBytes = 10 << 20
)

// Config holds configuration for the OpenAlex client.
type Config struct {
	// BaseURL is the OpenAlex API base URL.
	// Defaults to https://api.openalex.org
	BaseURL string

	// Email is the operator contact for the polite pool.
	// Providing an email grants access to preferential rate limits.
	// See: https://docs.openalex.org/how-to-use-the-api/rate-limits-and-authentication
	Email string

	// Timeout is the per-request timeout. Defaults to 30 seconds.
	Timeout time.Duration

	// Retries is the number of retry attempts after the first request.
	// Defaults to 3.
	Retries int

	// DefaultPerPage is the page size used when the caller does not ask
	// for one. Defaults to 25.
	DefaultPerPage int

	// MaxPerPage is the page size ceiling. Defaults to 50.
	MaxPerPage int

	// RateLimit is the maximum requests per second. Defaults to 10.
	RateLimit float64

	// BurstSize is the maximum burst of requests allowed. Defaults to 10.
	BurstSize int
}

// applyDefaults sets default values for unset configuration fields.
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Retries == 0 {
		c.Retries = DefaultRetries
	}
	if c.DefaultPerPage == 0 {
		c.DefaultPerPage = DefaultPerPage
	}
	if c.MaxPerPage == 0 {
		c.MaxPerPage = DefaultMaxPerPage
	}
	if c.RateLimit == 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.BurstSize == 0 {
		c.BurstSize = DefaultBurstSize
	}
}

// Client is a rate-limited, retrying HTTP client for the OpenAlex API.
// It is safe for concurrent use; it holds no per-call state beyond the
// shared connection pool and rate limiter.
type Client struct {
	config      Config
	httpClient  *http.Client
	rateLimiter *RateLimiter
	logger      zerolog.Logger
	metrics     *observability.Metrics
	userAgent   string
}

// New creates a new OpenAlex client with the given configuration.
// A missing polite-pool email is logged as a warning, never an error.
func New(cfg Config, logger zerolog.Logger, metrics *observability.Metrics) *Client {
	cfg.applyDefaults()

	logger = logger.With().Str("component", "openalex-client").Logger()

	userAgent := "openalex-explorer/1.0"
	if cfg.Email != "" {
		userAgent += " (mailto:" + cfg.Email + ")"
	} else {
		logger.Warn().Msg("no polite-pool email configured; requests will use the common rate pool")
	}

	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: NewRateLimiter(cfg.RateLimit, cfg.BurstSize),
		logger:      logger,
		metrics:     metrics,
		userAgent:   userAgent,
	}
}

// NewWithHTTPClient creates a client with a custom http.Client.
// This is useful for testing with mock servers.
func NewWithHTTPClient(cfg Config, httpClient *http.Client, logger zerolog.Logger, metrics *observability.Metrics) *Client {
	c := New(cfg, logger, metrics)
	c.httpClient = httpClient
	return c
}

// ClampPerPage clamps a requested page size to [1, MaxPerPage].
// Requests beyond the ceiling are silently capped, not rejected.
func (c *Client) ClampPerPage(n int) int {
	if n < 1 {
		return 1
	}
	if n > c.config.MaxPerPage {
		return c.config.MaxPerPage
	}
	return n
}

// MaxPerPage returns the configured page size ceiling.
func (c *Client) MaxPerPage() int {
	return c.config.MaxPerPage
}

// DefaultPageSize returns the configured default page size.
func (c *Client) DefaultPageSize() int {
	return c.config.DefaultPerPage
}

// Get performs a single GET against the given API path with retries.
// Empty-valued parameters are stripped before sending. Transient failures
// (transport errors, 429, 5xx) are retried with exponential backoff of
// 2^attempt seconds; 404 surfaces as domain.ErrNotFound so identifier
// lookups can observe absence, and other non-2xx statuses fail immediately.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	reqURL, err := c.buildURL(path, params)
	if err != nil {
		return nil, err
	}

	endpoint := endpointLabel(path)
	start := time.Now()

	var lastErr error
	for attempt := 0; attempt <= c.config.Retries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * time.Second
			var rateErr *domain.RateLimitError
			if errors.As(lastErr, &rateErr) && rateErr.RetryAfter > 0 {
				backoff = rateErr.RetryAfter
			}
			c.logger.Warn().
				Err(lastErr).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Str("endpoint", endpoint).
				Msg("retrying request")
			if c.metrics != nil {
				c.metrics.RecordUpstreamRetry()
			}
			if err := sleepCtx(ctx, backoff); err != nil {
				return nil, err
			}
		}

		body, retryable, err := c.doOnce(ctx, reqURL)
		if err == nil {
			if c.metrics != nil {
				c.metrics.RecordUpstreamRequest(endpoint, time.Since(start).Seconds())
			}
			return body, nil
		}
		if !retryable {
			if c.metrics != nil {
				c.metrics.RecordUpstreamRequestFailed(endpoint, classifyError(err))
			}
			return nil, err
		}
		lastErr = err
	}

	if c.metrics != nil {
		c.metrics.RecordUpstreamRequestFailed(endpoint, classifyError(lastErr))
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", c.config.Retries+1, lastErr)
}

// doOnce executes one attempt. The second return value reports whether the
// failure is retry-eligible.
func (c *Client) doOnce(ctx context.Context, reqURL string) (json.RawMessage, bool, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, false, fmt.Errorf("rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, false, err
		}
		return nil, true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, true, fmt.Errorf("reading response: %w", err)
		}
		return body, false, nil

	case resp.StatusCode == http.StatusNotFound:
		drain(resp.Body)
		return nil, false, domain.NewNotFoundError("resource", req.URL.Path)

	case resp.StatusCode == http.StatusTooManyRequests:
		drain(resp.Body)
		if c.metrics != nil {
			c.metrics.RecordUpstreamRateLimited()
		}
		return nil, true, domain.NewRateLimitError(sourceName, retryAfter(resp))

	case resp.StatusCode >= 500:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return nil, true, domain.NewExternalAPIError(sourceName, resp.StatusCode, string(msg), domain.ErrServiceUnavailable)

	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return nil, false, domain.NewExternalAPIError(sourceName, resp.StatusCode, string(msg), nil)
	}
}

// buildURL joins the base URL with the request path, strips empty parameters,
// and appends the polite-pool mailto parameter when configured.
func (c *Client) buildURL(path string, params url.Values) (string, error) {
	base, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}
	// DOI paths contain an embedded URL; OpenAlex expects it verbatim.
	base.Path = strings.TrimSuffix(base.Path, "/") + path

	query := url.Values{}
	for key, values := range params {
		for _, v := range values {
			if v != "" {
				query.Add(key, v)
			}
		}
	}
	if c.config.Email != "" {
		query.Set("mailto", c.config.Email)
	}
	base.RawQuery = query.Encode()

	return base.String(), nil
}

// endpointLabel reduces a request path to a low-cardinality metric label.
func endpointLabel(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return "/" + trimmed[:i] + "/{id}"
	}
	return "/" + trimmed
}

// retryAfter parses the Retry-After header, in seconds or HTTP-date form.
func retryAfter(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	if seconds, err := strconv.ParseInt(header, 10, 64); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		if delay := time.Until(t); delay > 0 {
			return delay
		}
	}
	return 0
}

// classifyError maps an error to a metric label.
func classifyError(err error) string {
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrServiceUnavailable):
		return "server_error"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "transport"
	}
}

// sleepCtx waits for the given duration, respecting context cancellation.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// drain discards a response body so the connection can be reused.
func drain(body io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 1<<20))
}
