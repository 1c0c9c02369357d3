package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the proxy.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec   // labels: family, status
	RequestDuration *prometheus.HistogramVec // labels: family

	RateLimitRejections *prometheus.CounterVec // labels: family
	ExtractionFailures  *prometheus.CounterVec // labels: family
	FallbackResponses   *prometheus.CounterVec // labels: family

	// Upstream metrics, recorded by the caching fetch decorator.
	CacheLookups     *prometheus.CounterVec   // labels: family, result={hit,miss}
	UpstreamRequests *prometheus.CounterVec   // labels: family, outcome={success,error,timeout}
	UpstreamDuration *prometheus.HistogramVec // labels: family
}

// NewMetrics creates and registers all proxy metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boatsafe",
			Name:      "requests_total",
			Help:      "Proxy requests by endpoint family and response status.",
		}, []string{"family", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "boatsafe",
			Name:      "request_duration_seconds",
			Help:      "End-to-end proxy request duration.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"family"}),
		RateLimitRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boatsafe",
			Name:      "rate_limit_rejections_total",
			Help:      "Requests rejected by the per-client rate limiter.",
		}, []string{"family"}),
		ExtractionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boatsafe",
			Name:      "extraction_failures_total",
			Help:      "Bulletins fetched successfully but missing the requested section.",
		}, []string{"family"}),
		FallbackResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boatsafe",
			Name:      "fallback_responses_total",
			Help:      "Responses synthesized because the upstream was unavailable.",
		}, []string{"family"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boatsafe",
			Name:      "cache_lookups_total",
			Help:      "Response cache lookups by family and result.",
		}, []string{"family", "result"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boatsafe",
			Name:      "upstream_requests_total",
			Help:      "NOAA upstream requests by family and outcome.",
		}, []string{"family", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "boatsafe",
			Name:      "upstream_duration_seconds",
			Help:      "NOAA upstream request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}, []string{"family"}),
	}

	prometheus.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.RateLimitRejections,
		m.ExtractionFailures,
		m.FallbackResponses,
		m.CacheLookups,
		m.UpstreamRequests,
		m.UpstreamDuration,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can construct
// servers repeatedly without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RequestsTotal:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "boatsafe", Name: "requests_total"}, []string{"family", "status"}),
		RequestDuration:     prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "boatsafe", Name: "request_duration_seconds"}, []string{"family"}),
		RateLimitRejections: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "boatsafe", Name: "rate_limit_rejections_total"}, []string{"family"}),
		ExtractionFailures:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "boatsafe", Name: "extraction_failures_total"}, []string{"family"}),
		FallbackResponses:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "boatsafe", Name: "fallback_responses_total"}, []string{"family"}),
		CacheLookups:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "boatsafe", Name: "cache_lookups_total"}, []string{"family", "result"}),
		UpstreamRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "boatsafe", Name: "upstream_requests_total"}, []string{"family", "outcome"}),
		UpstreamDuration:    prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "boatsafe", Name: "upstream_duration_seconds"}, []string{"family"}),
	}
}
