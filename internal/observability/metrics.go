package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the OpenAlex Explorer service.
// Metrics are organized by subsystem: tool invocations and upstream API
// requests. All counters and histograms are registered via promauto with the
// provided registerer.
type Metrics struct {
	// ToolCallsStarted counts tool invocations, labeled by tool name.
	ToolCallsStarted *prometheus.CounterVec

	// ToolCallsCompleted counts successful tool invocations, labeled by tool name.
	ToolCallsCompleted *prometheus.CounterVec

	// ToolCallsFailed counts tool invocations that failed before the boundary
	// degraded them, labeled by tool name.
	ToolCallsFailed *prometheus.CounterVec

	// ToolCallDuration observes tool invocation duration in seconds, labeled by tool name.
	ToolCallDuration *prometheus.HistogramVec

	// ResultsPerCall observes the number of flat records returned per search call.
	ResultsPerCall *prometheus.HistogramVec

	// UpstreamRequestsTotal counts HTTP requests to the OpenAlex API, labeled by endpoint.
	UpstreamRequestsTotal *prometheus.CounterVec

	// UpstreamRequestsFailed counts failed HTTP requests, labeled by endpoint and error type.
	UpstreamRequestsFailed *prometheus.CounterVec

	// UpstreamRequestDuration observes HTTP request duration in seconds, labeled by endpoint.
	UpstreamRequestDuration *prometheus.HistogramVec

	// UpstreamRetries counts retry attempts against the OpenAlex API.
	UpstreamRetries prometheus.Counter

	// UpstreamRateLimited counts 429 responses from the OpenAlex API.
	UpstreamRateLimited prometheus.Counter
}

// NewMetrics creates a new Metrics instance registered with the default
// Prometheus registry. The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWith(namespace, prometheus.DefaultRegisterer)
}

// NewMetricsWith creates a new Metrics instance registered with the given
// registerer. Tests pass a fresh registry to avoid duplicate registration.
func NewMetricsWith(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ToolCallsStarted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_started_total",
			Help:      "Total number of tool invocations started by tool",
		}, []string{"tool"}),
		ToolCallsCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_completed_total",
			Help:      "Total number of tool invocations completed by tool",
		}, []string{"tool"}),
		ToolCallsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_failed_total",
			Help:      "Total number of tool invocations that failed by tool",
		}, []string{"tool"}),
		ToolCallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "Duration of tool invocations in seconds by tool",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"tool"}),
		ResultsPerCall: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "results_per_call",
			Help:      "Number of records returned per search call by tool",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		}, []string{"tool"}),

		UpstreamRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of requests to the OpenAlex API",
		}, []string{"endpoint"}),
		UpstreamRequestsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_failed_total",
			Help:      "Total number of failed requests to the OpenAlex API",
		}, []string{"endpoint", "error_type"}),
		UpstreamRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of requests to the OpenAlex API in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		UpstreamRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_retries_total",
			Help:      "Total number of retry attempts against the OpenAlex API",
		}),
		UpstreamRateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_rate_limited_total",
			Help:      "Total number of rate limit responses from the OpenAlex API",
		}),
	}
}

// RecordToolCallStarted records that a tool invocation has started.
func (m *Metrics) RecordToolCallStarted(tool string) {
	m.ToolCallsStarted.WithLabelValues(tool).Inc()
}

// RecordToolCallCompleted records a tool invocation that completed.
func (m *Metrics) RecordToolCallCompleted(tool string, resultCount int, durationSeconds float64) {
	m.ToolCallsCompleted.WithLabelValues(tool).Inc()
	m.ToolCallDuration.WithLabelValues(tool).Observe(durationSeconds)
	m.ResultsPerCall.WithLabelValues(tool).Observe(float64(resultCount))
}

// RecordToolCallFailed records a tool invocation that failed.
func (m *Metrics) RecordToolCallFailed(tool string, durationSeconds float64) {
	m.ToolCallsFailed.WithLabelValues(tool).Inc()
	m.ToolCallDuration.WithLabelValues(tool).Observe(durationSeconds)
}

// RecordUpstreamRequest records a request to the OpenAlex API.
func (m *Metrics) RecordUpstreamRequest(endpoint string, durationSeconds float64) {
	m.UpstreamRequestsTotal.WithLabelValues(endpoint).Inc()
	m.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(durationSeconds)
}

// RecordUpstreamRequestFailed records a failed request to the OpenAlex API.
func (m *Metrics) RecordUpstreamRequestFailed(endpoint, errorType string) {
	m.UpstreamRequestsFailed.WithLabelValues(endpoint, errorType).Inc()
}

// RecordUpstreamRetry records a retry attempt.
func (m *Metrics) RecordUpstreamRetry() {
	m.UpstreamRetries.Inc()
}

// RecordUpstreamRateLimited records a rate limit response.
func (m *Metrics) RecordUpstreamRateLimited() {
	m.UpstreamRateLimited.Inc()
}
