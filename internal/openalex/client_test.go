package openalex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarex/openalex-explorer/internal/domain"
)

func newTestClient(t *testing.T, server *httptest.Server, cfg Config) *Client {
	t.Helper()
	cfg.BaseURL = server.URL
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 1000
		cfg.BurstSize = 1000
	}
	return NewWithHTTPClient(cfg, server.Client(), zerolog.Nop(), nil)
}

func TestClientGet(t *testing.T) {
	t.Run("success returns body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/works", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			w.Write([]byte(`{"meta":{"count":0},"results":[]}`))
		}))
		defer server.Close()

		client := newTestClient(t, server, Config{})
		body, err := client.Get(context.Background(), "/works", nil)
		require.NoError(t, err)
		assert.JSONEq(t, `{"meta":{"count":0},"results":[]}`, string(body))
	})

	t.Run("empty parameters are stripped", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "a thing", r.URL.Query().Get("search"))
			assert.False(t, r.URL.Query().Has("filter"))
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		params := url.Values{}
		params.Set("search", "a thing")
		params.Set("filter", "")

		client := newTestClient(t, server, Config{})
		_, err := client.Get(context.Background(), "/works", params)
		require.NoError(t, err)
	})

	t.Run("polite pool email is sent as mailto and user agent", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "ops@example.org", r.URL.Query().Get("mailto"))
			assert.Contains(t, r.Header.Get("User-Agent"), "mailto:ops@example.org")
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := newTestClient(t, server, Config{Email: "ops@example.org"})
		_, err := client.Get(context.Background(), "/works", nil)
		require.NoError(t, err)
	})

	t.Run("server errors are retried", func(t *testing.T) {
		var calls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := newTestClient(t, server, Config{Retries: 2})
		_, err := client.Get(context.Background(), "/works", nil)
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("exhausted retries surface the last error", func(t *testing.T) {
		var calls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := newTestClient(t, server, Config{Retries: 1})
		_, err := client.Get(context.Background(), "/works", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
		assert.Equal(t, 2, calls)
	})

	t.Run("404 is not retried and maps to not found", func(t *testing.T) {
		var calls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := newTestClient(t, server, Config{Retries: 3})
		_, err := client.Get(context.Background(), "/works/W0", nil)
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("429 is retried and honors Retry-After", func(t *testing.T) {
		var calls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := newTestClient(t, server, Config{Retries: 1})
		_, err := client.Get(context.Background(), "/works", nil)
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("client errors fail immediately", func(t *testing.T) {
		var calls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		client := newTestClient(t, server, Config{Retries: 3})
		_, err := client.Get(context.Background(), "/works", nil)
		require.Error(t, err)

		var apiErr *domain.ExternalAPIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
		assert.Equal(t, 1, calls)
	})

	t.Run("context cancellation stops retries", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := newTestClient(t, server, Config{Retries: 3})
		_, err := client.Get(ctx, "/works", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestClampPerPage(t *testing.T) {
	client := New(Config{MaxPerPage: 50}, zerolog.Nop(), nil)

	assert.Equal(t, 1, client.ClampPerPage(0))
	assert.Equal(t, 1, client.ClampPerPage(-5))
	assert.Equal(t, 25, client.ClampPerPage(25))
	assert.Equal(t, 50, client.ClampPerPage(50))
	assert.Equal(t, 50, client.ClampPerPage(100))
}

func TestEndpointLabel(t *testing.T) {
	assert.Equal(t, "/works", endpointLabel("/works"))
	assert.Equal(t, "/works/{id}", endpointLabel("/works/W123"))
	assert.Equal(t, "/works/{id}", endpointLabel("/works/https://doi.org/10.1/abc"))
	assert.Equal(t, "/concepts", endpointLabel("/concepts"))
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	cfg.applyDefaults()

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultRetries, cfg.Retries)
	assert.Equal(t, DefaultMaxPerPage, cfg.MaxPerPage)
	assert.Equal(t, DefaultRateLimit, cfg.RateLimit)
}
