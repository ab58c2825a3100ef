package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records checkout outcomes and tracking simulator
// activity.
type StorefrontMetrics struct {
	checkoutDuration *prometheus.HistogramVec
	checkoutOutcomes *prometheus.CounterVec
	trackingTicks    prometheus.Counter
	trackingComplete prometheus.Counter
}

// NewStorefrontMetrics registers the storefront metrics on the provided
// registerer. A nil registerer yields a no-op instance, which keeps tests
// free of global registry collisions.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	checkoutDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout initiations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	checkoutOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_total",
		Help: "Checkout initiations by outcome.",
	}, []string{"outcome"})
	trackingTicks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracking_stage_advances_total",
		Help: "Order tracking simulator stage advances.",
	})
	trackingComplete := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracking_completed_total",
		Help: "Order tracking simulations that reached the final stage.",
	})
	reg.MustRegister(checkoutDuration, checkoutOutcomes, trackingTicks, trackingComplete)
	return &StorefrontMetrics{
		checkoutDuration: checkoutDuration,
		checkoutOutcomes: checkoutOutcomes,
		trackingTicks:    trackingTicks,
		trackingComplete: trackingComplete,
	}
}

// ObserveCheckout records one checkout initiation.
func (m *StorefrontMetrics) ObserveCheckout(outcome string, duration time.Duration) {
	if m == nil || m.checkoutDuration == nil {
		return
	}
	label := normalizeLabel(outcome)
	m.checkoutDuration.WithLabelValues(label).Observe(duration.Seconds())
	m.checkoutOutcomes.WithLabelValues(label).Inc()
}

// IncTrackingTick counts one simulator stage advance.
func (m *StorefrontMetrics) IncTrackingTick() {
	if m == nil || m.trackingTicks == nil {
		return
	}
	m.trackingTicks.Inc()
}

// IncTrackingComplete counts a simulation reaching its final stage.
func (m *StorefrontMetrics) IncTrackingComplete() {
	if m == nil || m.trackingComplete == nil {
		return
	}
	m.trackingComplete.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
