package telemetry

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Proxy attempt outcomes.
const (
	OutcomeResponse       = "response"
	OutcomeTransportError = "transport_error"
)

// Metrics holds the Prometheus collectors for the API server.
// Initialize once at server startup and pass it to the components that record.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Proxy relay metrics
	ProxyAttemptsTotal  *prometheus.CounterVec
	ProxyExhaustedTotal prometheus.Counter

	// Auth metrics
	SignInsTotal *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "movies_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "movies_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		ProxyAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "movies_proxy_attempts_total",
				Help: "Upstream attempts made by the proxy relay",
			},
			[]string{"outcome"},
		),
		ProxyExhaustedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "movies_proxy_exhausted_total",
				Help: "Proxy calls that failed after exhausting all retries",
			},
		),
		SignInsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "movies_auth_signins_total",
				Help: "Sign-in attempts by result",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ProxyAttemptsTotal,
		m.ProxyExhaustedTotal,
		m.SignInsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the private registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterDB adds connection pool gauges for db.
func (m *Metrics) RegisterDB(db *sql.DB, name string) error {
	return m.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordRequest records one served HTTP request. Safe on a nil receiver.
func (m *Metrics) RecordRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// RecordProxyAttempt counts one upstream attempt. Safe on a nil receiver.
func (m *Metrics) RecordProxyAttempt(outcome string) {
	if m == nil {
		return
	}
	m.ProxyAttemptsTotal.WithLabelValues(outcome).Inc()
}

// RecordProxyExhausted counts one relay call that ran out of attempts. Safe on a nil receiver.
func (m *Metrics) RecordProxyExhausted() {
	if m == nil {
		return
	}
	m.ProxyExhaustedTotal.Inc()
}

// RecordSignIn counts one sign-in attempt. Safe on a nil receiver.
func (m *Metrics) RecordSignIn(success bool) {
	if m == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	m.SignInsTotal.WithLabelValues(result).Inc()
}
