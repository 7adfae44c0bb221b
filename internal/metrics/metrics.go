// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service collectors.
type Metrics struct {
	// RequestsTotal counts finished requests by method, route template and status.
	RequestsTotal *prometheus.CounterVec
	// RequestDuration observes request latency by method and route template.
	RequestDuration  *prometheus.HistogramVec
	InflightRequests prometheus.Gauge
	// RegistryOutcomes counts create/resolve results by outcome.
	RegistryOutcomes *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency distributions.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		InflightRequests: factory.NewGauge(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Current number of in-flight HTTP requests.",
		}),
		RegistryOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shortener_registry_operations_total",
			Help: "URL registry operations by result.",
		}, []string{"operation", "outcome"}),
	}
}
