package mux

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records dispatch outcomes as Prometheus metrics:
//
//	restmux_dispatch_total{table,method,state}
//	restmux_dispatch_duration_seconds{table,method}
type Metrics struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the dispatch metrics and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		total: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "restmux",
			Name:      "dispatch_total",
			Help:      "Total number of dispatched requests by terminal state.",
		}, []string{"table", "method", "state"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "restmux",
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent dispatching a request, action included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"table", "method"}),
	}
}

// observe is a no-op on a nil receiver.
func (m *Metrics) observe(table, method string, state State, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.total.WithLabelValues(table, method, state.String()).Inc()
	m.duration.WithLabelValues(table, method).Observe(elapsed.Seconds())
}
