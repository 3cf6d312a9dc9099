package infrastructure

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wardpulse",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests handled, partitioned by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wardpulse",
			Name:      "http_request_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	recomputeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "wardpulse",
			Name:      "recompute_seconds",
			Help:      "Filter-and-aggregate recomputation latency in seconds.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		},
	)

	datasetReloadsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wardpulse",
			Name:      "dataset_reloads_total",
			Help:      "Number of times the staffing dataset was (re)loaded from disk.",
		},
	)

	datasetDays = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "wardpulse",
			Name:      "dataset_days",
			Help:      "Number of staffing days in the loaded dataset.",
		},
	)
)

// RegisterMetrics attaches the wardpulse collectors to the supplied registerer.
func RegisterMetrics(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		httpRequestsTotal,
		httpRequestDuration,
		recomputeDuration,
		datasetReloadsTotal,
		datasetDays,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// MetricsHandler returns the HTTP handler serving the default registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// ObserveRequest records one handled HTTP request.
func ObserveRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveRecompute records one filter-and-aggregate cycle.
func ObserveRecompute(duration time.Duration) {
	if duration < 0 {
		duration = 0
	}
	recomputeDuration.Observe(duration.Seconds())
}

// ObserveDatasetLoad records a dataset (re)load and its resulting size.
func ObserveDatasetLoad(days int) {
	datasetReloadsTotal.Inc()
	datasetDays.Set(float64(days))
}
