// Package metrics registers the gateway's prometheus instruments.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all gateway instruments.
type Metrics struct {
	RequestTotal     *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	UpstreamTotal    *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	PollIterations   prometheus.Counter

	registry *prometheus.Registry
}

// New creates and registers all instruments on a private registry.
func New() *Metrics {
	m := &Metrics{
		RequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Total number of inbound HTTP requests",
		}, []string{"route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gateway_request_duration_seconds",
			Help:    "Inbound request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		UpstreamTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_upstream_calls_total",
			Help: "Total number of upstream API calls",
		}, []string{"path", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gateway_upstream_call_duration_seconds",
			Help:    "Upstream call duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
		PollIterations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gateway_wait_poll_iterations_total",
			Help: "Total number of wait-for-audio poll iterations",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.RequestTotal,
		m.RequestDuration,
		m.UpstreamTotal,
		m.UpstreamDuration,
		m.PollIterations,
	)

	return m
}

// Handler serves the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
