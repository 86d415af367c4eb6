// Package metrics exposes Prometheus collectors for the directory service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Ingestion outcome labels.
const (
	IngestInserted  = "inserted"
	IngestDuplicate = "duplicate"
	IngestFailed    = "failed"
	IngestRequeued  = "requeued"
)

var (
	ingestURLsTotal            *prometheus.CounterVec
	ingestBatchDurationSeconds prometheus.Histogram
	ingestActiveWorkers        prometheus.Gauge
	queueDepth                 prometheus.Gauge
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		ingestURLsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "directory_ingest_urls_total",
				Help: "Total number of URLs processed by the ingestion scheduler, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		ingestBatchDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "directory_ingest_batch_duration_seconds",
				Help:    "Histogram of drain-cycle durations.",
				Buckets: []float64{0.05, 0.25, 1, 5, 15, 30, 60},
			},
		)

		ingestActiveWorkers = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "directory_ingest_active_workers",
				Help: "Number of extraction workers currently processing a URL.",
			},
		)

		queueDepth = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "directory_queue_depth",
				Help: "Number of submissions pending in the queue file.",
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveIngest increments the per-URL outcome counter.
func ObserveIngest(outcome string) {
	ingestURLsTotal.WithLabelValues(outcome).Inc()
}

// ObserveBatch records the duration of one drain cycle.
func ObserveBatch(duration time.Duration) {
	ingestBatchDurationSeconds.Observe(duration.Seconds())
}

// IncActiveWorkers increments the active workers gauge.
func IncActiveWorkers() {
	ingestActiveWorkers.Inc()
}

// DecActiveWorkers decrements the active workers gauge.
func DecActiveWorkers() {
	ingestActiveWorkers.Dec()
}

// SetQueueDepth records the current pending-submission count.
func SetQueueDepth(n int) {
	queueDepth.Set(float64(n))
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
