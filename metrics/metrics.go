// Package metrics provides Prometheus metrics collection for the
// harmonizer API. It exports metrics in three groups:
//   - HTTP: http_request_total, http_request_duration_seconds and
//     http_request_in_flight for request performance
//   - Dataset: dataset_records and dataset_reloads_total for the
//     loaded catalog and its reload cycle
//   - Language model: llm_requests_total and
//     llm_request_duration_seconds per backend operation
//
// All metrics are automatically registered with the Prometheus default
// registry during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen in last ~5 minutes)",
		},
	)

	DatasetRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_records",
			Help: "Number of drug records in the loaded catalog",
		},
	)

	DatasetReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_reloads_total",
			Help: "Dataset reload attempts by outcome",
		},
		[]string{"status"},
	)

	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_requests_total",
			Help: "Language model requests by operation and outcome",
		},
		[]string{"operation", "status"},
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "Language model request latency",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(DatasetRecords)
	prometheus.MustRegister(DatasetReloadsTotal)
	prometheus.MustRegister(LLMRequestsTotal)
	prometheus.MustRegister(LLMRequestDuration)
}
