// Package metrics exposes Prometheus instrumentation for running worlds and
// the HTTP endpoint that serves it.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vovakirdan/citywalk/internal/collision"
	"github.com/vovakirdan/citywalk/internal/entity"
)

// Metrics contains the citywalk Prometheus collectors. A nil *Metrics is a
// valid no-op recorder.
type Metrics struct {
	CollisionEvents  *prometheus.CounterVec
	ItemsCollected   *prometheus.CounterVec
	FrameDuration    prometheus.Histogram
	ActiveCollisions prometheus.Gauge
	Sessions         prometheus.Gauge
	RunsFinished     prometheus.Counter
}

// NewMetrics creates and registers the citywalk metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CollisionEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "citywalk_collision_events_total",
				Help: "Total number of collision events by phase and target kind",
			},
			[]string{"phase", "kind"},
		),
		ItemsCollected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "citywalk_items_collected_total",
				Help: "Total number of collected items by subtype",
			},
			[]string{"subtype"},
		),
		FrameDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "citywalk_frame_duration_seconds",
				Help:    "Wall time spent in one simulation step",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
		),
		ActiveCollisions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "citywalk_active_collisions",
				Help: "Player/entity pairs overlapping after the last step",
			},
		),
		Sessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "citywalk_ssh_sessions",
				Help: "Number of connected SSH sessions",
			},
		),
		RunsFinished: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "citywalk_runs_finished_total",
				Help: "Total number of runs that collected every item",
			},
		),
	}

	reg.MustRegister(
		m.CollisionEvents,
		m.ItemsCollected,
		m.FrameDuration,
		m.ActiveCollisions,
		m.Sessions,
		m.RunsFinished,
	)
	return m
}

// RecordEvent counts one collision event.
func (m *Metrics) RecordEvent(ev collision.Event) {
	if m == nil {
		return
	}
	m.CollisionEvents.WithLabelValues(ev.Phase.String(), ev.TargetKind.String()).Inc()
}

// RecordCollect counts one collected item.
func (m *Metrics) RecordCollect(subtype entity.ItemSubtype) {
	if m == nil {
		return
	}
	m.ItemsCollected.WithLabelValues(string(subtype)).Inc()
}

// RecordFrame observes one step's duration and the active collision count.
func (m *Metrics) RecordFrame(d time.Duration, active int) {
	if m == nil {
		return
	}
	m.FrameDuration.Observe(d.Seconds())
	m.ActiveCollisions.Set(float64(active))
}

// SessionStarted increments the connected session gauge.
func (m *Metrics) SessionStarted() {
	if m != nil {
		m.Sessions.Inc()
	}
}

// SessionEnded decrements the connected session gauge.
func (m *Metrics) SessionEnded() {
	if m != nil {
		m.Sessions.Dec()
	}
}

// RunFinished counts a completed run.
func (m *Metrics) RunFinished() {
	if m != nil {
		m.RunsFinished.Inc()
	}
}
