package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	return NewMetricsWith("openalex_explorer_test", prometheus.NewRegistry())
}

func TestNewMetrics(t *testing.T) {
	m := newTestMetrics(t)

	assert.NotNil(t, m.ToolCallsStarted)
	assert.NotNil(t, m.ToolCallsCompleted)
	assert.NotNil(t, m.ToolCallsFailed)
	assert.NotNil(t, m.ToolCallDuration)
	assert.NotNil(t, m.ResultsPerCall)
	assert.NotNil(t, m.UpstreamRequestsTotal)
	assert.NotNil(t, m.UpstreamRequestsFailed)
	assert.NotNil(t, m.UpstreamRequestDuration)
	assert.NotNil(t, m.UpstreamRetries)
	assert.NotNil(t, m.UpstreamRateLimited)
}

func TestRecordToolCall(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordToolCallStarted("search_openalex_papers")
	m.RecordToolCallCompleted("search_openalex_papers", 3, 0.25)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToolCallsStarted.WithLabelValues("search_openalex_papers")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToolCallsCompleted.WithLabelValues("search_openalex_papers")))
	assert.Zero(t, testutil.ToFloat64(m.ToolCallsFailed.WithLabelValues("search_openalex_papers")))
}

func TestRecordToolCallFailed(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordToolCallStarted("get_publication_by_doi")
	m.RecordToolCallFailed("get_publication_by_doi", 0.1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToolCallsFailed.WithLabelValues("get_publication_by_doi")))
	assert.Zero(t, testutil.ToFloat64(m.ToolCallsCompleted.WithLabelValues("get_publication_by_doi")))
}

func TestRecordUpstream(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordUpstreamRequest("/works", 0.15)
	m.RecordUpstreamRequestFailed("/works", "server_error")
	m.RecordUpstreamRetry()
	m.RecordUpstreamRetry()
	m.RecordUpstreamRateLimited()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues("/works")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequestsFailed.WithLabelValues("/works", "server_error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.UpstreamRetries))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRateLimited))
}

func TestMetricsSeparateRegistries(t *testing.T) {
	// Two instances with the same namespace must not collide when each has
	// its own registry.
	require.NotPanics(t, func() {
		NewMetricsWith("openalex_explorer_test", prometheus.NewRegistry())
		NewMetricsWith("openalex_explorer_test", prometheus.NewRegistry())
	})
}
