package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// RequestsTotal counts HTTP requests by method, route pattern and status code.
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "imgeval",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests, labeled by method, route and status code.",
	}, []string{"method", "route", "code"})

	// RequestDurationSeconds is the handler latency.
	RequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "imgeval",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP handler latency in seconds.",
		// analyze requests include the simulated delay
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 10},
	}, []string{"method", "route"})

	// RequestsInFlight is the number of requests currently being served.
	RequestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "imgeval",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Current number of HTTP requests being served.",
	})

	// AnalysesTotal counts analyze actions by result.
	AnalysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "imgeval",
		Subsystem: "analysis",
		Name:      "batches_total",
		Help:      "Total number of analyzed batches, labeled by result.",
	}, []string{"result"})

	// ImagesAnalyzedTotal counts generated records by status bucket.
	ImagesAnalyzedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "imgeval",
		Subsystem: "analysis",
		Name:      "images_total",
		Help:      "Total number of analyzed images, labeled by status.",
	}, []string{"status"})

	// ImagesUploadedTotal counts stored uploads.
	ImagesUploadedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "imgeval",
		Subsystem: "upload",
		Name:      "images_total",
		Help:      "Total number of stored image uploads.",
	})

	// BatchesHeld is the number of batches currently held for the results view.
	BatchesHeld = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "imgeval",
		Subsystem: "analysis",
		Name:      "batches_held",
		Help:      "Number of result batches currently held in memory.",
	})

	// SessionsActive is the number of mock logins issued minus logouts.
	SessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "imgeval",
		Subsystem: "session",
		Name:      "active",
		Help:      "Mock sessions issued and not yet logged out (best-effort).",
	})
)

// Register registers all collectors with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			RequestDurationSeconds,
			RequestsInFlight,
			AnalysesTotal,
			ImagesAnalyzedTotal,
			ImagesUploadedTotal,
			BatchesHeld,
			SessionsActive,
		)
	})
}
