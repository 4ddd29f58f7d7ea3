// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "taskkeeper"

// Metrics owns its registry so several servers (e.g. in tests) can coexist
// in one process.
type Metrics struct {
	registry *prometheus.Registry

	// HTTPRequestsTotal counts requests by method, route and status.
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTPRequestDuration is request latency by method and route.
	HTTPRequestDuration *prometheus.HistogramVec
	// AuthEventsTotal counts authentication events (register, login,
	// forgot_password, reset_password) by outcome.
	AuthEventsTotal *prometheus.CounterVec
	// RateLimitedTotal counts requests rejected by the per-IP limiter.
	RateLimitedTotal prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by method, route, and status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2.5, 10),
			},
			[]string{"method", "route"},
		),
		AuthEventsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_events_total",
				Help:      "Authentication events by kind and outcome.",
			},
			[]string{"event", "outcome"},
		),
		RateLimitedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limited_requests_total",
				Help:      "Requests rejected by the per-IP rate limiter.",
			},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// AuthEvent records one authentication event.
func (m *Metrics) AuthEvent(event string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.AuthEventsTotal.WithLabelValues(event, outcome).Inc()
}
