package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jsamuelsen/anime-digest/internal/domain"
)

// Run outcomes recorded on anime_digest_runs_total.
const (
	RunResultSuccess = "success"
	RunResultFailure = "failure"
	RunResultSkipped = "skipped"
)

// Metrics holds the pipeline counters. A nil *Metrics records nothing.
type Metrics struct {
	runs            *prometheus.CounterVec
	itemsDropped    prometheus.Counter
	reactionsFailed prometheus.Counter
	markers         *prometheus.CounterVec
	lastSuccess     prometheus.Gauge
}

// NewMetrics creates the pipeline metrics and registers them with reg.
// A nil reg creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "anime_digest_runs_total",
			Help: "Digest runs by result.",
		}, []string{"result"}),
		itemsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "anime_digest_items_dropped_total",
			Help: "Ranked entries dropped because their detail lookup failed.",
		}),
		reactionsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "anime_digest_reactions_failed_total",
			Help: "Reactions that could not be attached to a posted digest.",
		}),
		markers: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "anime_digest_markers_assigned_total",
			Help: "Markers assigned by classifier stage.",
		}, []string{"source"}),
		lastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Name: "anime_digest_last_success_timestamp_seconds",
			Help: "Unix time of the last successful digest post.",
		}),
	}
}

func (m *Metrics) runFinished(result string) {
	if m == nil {
		return
	}

	m.runs.WithLabelValues(result).Inc()

	if result == RunResultSuccess {
		m.lastSuccess.SetToCurrentTime()
	}
}

func (m *Metrics) itemsDroppedAdd(n int) {
	if m == nil || n <= 0 {
		return
	}

	m.itemsDropped.Add(float64(n))
}

func (m *Metrics) reactionFailed() {
	if m == nil {
		return
	}

	m.reactionsFailed.Inc()
}

func (m *Metrics) markersAssigned(entries []domain.DigestEntry) {
	if m == nil {
		return
	}

	for _, e := range entries {
		m.markers.WithLabelValues(string(e.Source)).Inc()
	}
}
