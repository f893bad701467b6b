package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		calls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "client",
			Name:      "api_calls_total",
			Help:      "Remote API calls by operation and response status.",
		}, []string{"op", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "marketplace",
			Subsystem: "client",
			Name:      "api_call_duration_seconds",
			Help:      "Remote API call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
}

func (m *metrics) observe(op, status string, latency time.Duration) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(op, status).Inc()
	m.duration.WithLabelValues(op).Observe(latency.Seconds())
}
