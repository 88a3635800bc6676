package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cim",
			Subsystem: "store",
			Name:      "requests_total",
			Help:      "Total number of store requests by kind, verb and result",
		},
		[]string{"kind", "verb", "result"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cim",
			Subsystem: "store",
			Name:      "request_duration_seconds",
			Help:      "Latency of store requests in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~10s
		},
		[]string{"kind", "verb"},
	)
)

func init() {
	metrics.Registry.MustRegister(requestsTotal, requestDuration)
}

// recordRequest records the outcome and latency of one store request.
func recordRequest(kind, verb string, start time.Time, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	requestsTotal.WithLabelValues(kind, verb, result).Inc()
	requestDuration.WithLabelValues(kind, verb).Observe(time.Since(start).Seconds())
}
