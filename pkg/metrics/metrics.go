package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for Velocite. Each instance owns its
// registry so several can coexist in one process (tests, multiple apps).
// All record methods are no-ops on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	// Insight generation
	Generations        *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	ClustersGenerated  *prometheus.CounterVec

	// Dashboard
	AnalysesInFlight prometheus.Gauge

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		Generations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "velocite_insight_generations_total",
				Help: "Insight generations by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		GenerationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "velocite_insight_generation_duration_seconds",
				Help:    "Duration of insight generations in seconds",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
			},
			[]string{"provider"},
		),
		ClustersGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "velocite_insight_clusters_total",
				Help: "Insight clusters returned, by severity",
			},
			[]string{"severity"},
		),
		AnalysesInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "velocite_dashboard_analyses_in_flight",
				Help: "Dashboard analyses currently running",
			},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "velocite_http_requests_total",
				Help: "HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "velocite_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry exposes the underlying registry (for tests and custom collectors)
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordGeneration counts one generation and observes its latency
func (m *Metrics) RecordGeneration(provider, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Generations.WithLabelValues(provider, outcome).Inc()
	m.GenerationDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// RecordCluster counts one returned cluster by severity
func (m *Metrics) RecordCluster(severity string) {
	if m == nil {
		return
	}
	m.ClustersGenerated.WithLabelValues(severity).Inc()
}

// AnalysisStarted increments the in-flight gauge
func (m *Metrics) AnalysisStarted() {
	if m == nil {
		return
	}
	m.AnalysesInFlight.Inc()
}

// AnalysisFinished decrements the in-flight gauge
func (m *Metrics) AnalysisFinished() {
	if m == nil {
		return
	}
	m.AnalysesInFlight.Dec()
}

// RecordHTTPRequest counts one served request
func (m *Metrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
