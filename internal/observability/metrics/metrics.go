package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DispatchMetrics exposes counters/histograms for SMS dispatches.
type DispatchMetrics struct {
	dispatchTotal   *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
}

// NewDispatchMetrics registers the dispatch collectors on reg, or on the
// default registerer when reg is nil.
func NewDispatchMetrics(reg prometheus.Registerer) *DispatchMetrics {
	m := &DispatchMetrics{
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "txnsms",
			Subsystem: "dispatch",
			Name:      "total",
			Help:      "Total SMS dispatches by outcome",
		}, []string{"outcome", "mode"}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "txnsms",
			Subsystem: "dispatch",
			Name:      "provider_latency_seconds",
			Help:      "Latency of the SMS provider call",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.dispatchTotal, m.providerLatency)
	return m
}

// ObserveOutcome counts one finished dispatch. outcome is "delivered" or a
// failure kind.
func (m *DispatchMetrics) ObserveOutcome(outcome, mode string) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(outcome, mode).Inc()
}

// ObserveProviderLatency records how long the provider call took.
func (m *DispatchMetrics) ObserveProviderLatency(mode string, d time.Duration) {
	if m == nil {
		return
	}
	m.providerLatency.WithLabelValues(mode).Observe(d.Seconds())
}
