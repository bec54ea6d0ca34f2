package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the accent detection
// pipeline and its HTTP surface.
type Metrics struct {
	registry           *prometheus.Registry
	requestsTotal      prometheus.Counter
	errorsTotal        prometheus.Counter
	runsStartedTotal   prometheus.Counter
	runsSucceededTotal prometheus.Counter
	runFailuresTotal   *prometheus.CounterVec
	activeRuns         prometheus.Gauge
}

// New creates and registers Prometheus metrics on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "accent_http_requests_total",
		Help: "Total number of HTTP requests received",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "accent_http_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})
	runsStartedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "accent_runs_started_total",
		Help: "Total number of pipeline runs started",
	})
	runsSucceededTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "accent_runs_succeeded_total",
		Help: "Total number of pipeline runs that produced a result",
	})
	runFailuresTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "accent_run_failures_total",
		Help: "Total number of failed pipeline runs, by failing stage",
	}, []string{"stage"})
	activeRuns := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "accent_active_runs",
		Help: "Number of pipeline runs currently in flight",
	})

	registry.MustRegister(
		requestsTotal,
		errorsTotal,
		runsStartedTotal,
		runsSucceededTotal,
		runFailuresTotal,
		activeRuns,
	)

	return &Metrics{
		registry:           registry,
		requestsTotal:      requestsTotal,
		errorsTotal:        errorsTotal,
		runsStartedTotal:   runsStartedTotal,
		runsSucceededTotal: runsSucceededTotal,
		runFailuresTotal:   runFailuresTotal,
		activeRuns:         activeRuns,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncErrors increments the HTTP errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// IncRunsStarted increments the started runs counter.
func (m *Metrics) IncRunsStarted() {
	m.runsStartedTotal.Inc()
}

// IncRunsSucceeded increments the succeeded runs counter.
func (m *Metrics) IncRunsSucceeded() {
	m.runsSucceededTotal.Inc()
}

// IncRunFailures increments the failed runs counter for the given stage.
func (m *Metrics) IncRunFailures(stage string) {
	m.runFailuresTotal.WithLabelValues(stage).Inc()
}

// IncActiveRuns increments the in-flight runs gauge.
func (m *Metrics) IncActiveRuns() {
	m.activeRuns.Inc()
}

// DecActiveRuns decrements the in-flight runs gauge.
func (m *Metrics) DecActiveRuns() {
	m.activeRuns.Dec()
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
