package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// DispatchMetrics records outcomes of real-time notification publishes.
type DispatchMetrics struct {
	published *prometheus.CounterVec
	failed    *prometheus.CounterVec
	dropped   prometheus.Counter
}

// NewDispatchMetrics registers the dispatch metrics on the provided registerer.
func NewDispatchMetrics(reg prometheus.Registerer) *DispatchMetrics {
	if reg == nil {
		return &DispatchMetrics{}
	}
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_events_published",
		Help: "Notification events published, by event type.",
	}, []string{"event"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_events_failed",
		Help: "Notification publishes that returned an error, by event type.",
	}, []string{"event"})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_events_dropped",
		Help: "Events dropped because a subscriber queue was full.",
	})
	reg.MustRegister(published, failed, dropped)
	return &DispatchMetrics{
		published: published,
		failed:    failed,
		dropped:   dropped,
	}
}

// IncPublished increments the published counter for the named event.
func (d *DispatchMetrics) IncPublished(event string) {
	if d == nil || d.published == nil {
		return
	}
	d.published.WithLabelValues(normalizeLabel(event)).Inc()
}

// IncFailed increments the failure counter for the named event.
func (d *DispatchMetrics) IncFailed(event string) {
	if d == nil || d.failed == nil {
		return
	}
	d.failed.WithLabelValues(normalizeLabel(event)).Inc()
}

// IncDropped increments the dropped-event counter.
func (d *DispatchMetrics) IncDropped() {
	if d == nil || d.dropped == nil {
		return
	}
	d.dropped.Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return value
}
