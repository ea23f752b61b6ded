package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors exported by the API server.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	kernelCount     prometheus.Gauge
	bankCount       prometheus.Gauge
	connectionCount prometheus.Gauge
	imageBytes      prometheus.Gauge
}

// NewMetrics registers the collectors on reg and returns the set. Callers
// own the registry, so tests can use a fresh one per server.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gantry_api_requests_total",
				Help: "Total number of API requests served, by handler.",
			},
			[]string{"handler"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gantry_api_request_duration_seconds",
				Help:    "API request latency in seconds, by handler.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"handler"},
		),
		kernelCount: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "gantry_container_kernels",
				Help: "Number of kernels decoded from the loaded container.",
			},
		),
		bankCount: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "gantry_container_mem_banks",
				Help: "Number of memory banks decoded from the loaded container.",
			},
		),
		connectionCount: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "gantry_container_connections",
				Help: "Number of connectivity records decoded from the loaded container.",
			},
		),
		imageBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "gantry_container_image_bytes",
				Help: "Size of the loaded container image in bytes.",
			},
		),
	}
}

// RecordRequest counts one served request and observes its latency.
func (m *Metrics) RecordRequest(handler string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(handler).Inc()
	m.requestDuration.WithLabelValues(handler).Observe(elapsed.Seconds())
}

// SetContainerStats publishes the decoded shape of the loaded container.
func (m *Metrics) SetContainerStats(imageBytes, kernels, banks, connections int) {
	if m == nil {
		return
	}
	m.imageBytes.Set(float64(imageBytes))
	m.kernelCount.Set(float64(kernels))
	m.bankCount.Set(float64(banks))
	m.connectionCount.Set(float64(connections))
}
