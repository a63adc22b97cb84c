package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MatchingMetrics records match fan-out volume and side-effect failures.
type MatchingMetrics struct {
	matches        *prometheus.CounterVec
	effectFailures *prometheus.CounterVec
}

// NewMatchingMetrics registers the matching metrics on the provided registerer.
func NewMatchingMetrics(reg prometheus.Registerer) *MatchingMetrics {
	if reg == nil {
		return &MatchingMetrics{}
	}
	matches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "match_notifications_total",
		Help: "Match notifications generated per fan-out source.",
	}, []string{"source"})
	effectFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "side_effect_failures_total",
		Help: "Post-commit side effects that failed and were swallowed.",
	}, []string{"effect"})
	reg.MustRegister(matches, effectFailures)
	return &MatchingMetrics{
		matches:        matches,
		effectFailures: effectFailures,
	}
}

// AddMatches increments the fan-out counter for the named source.
func (m *MatchingMetrics) AddMatches(source string, count int) {
	if m == nil || m.matches == nil || count <= 0 {
		return
	}
	m.matches.WithLabelValues(normalizeLabel(source)).Add(float64(count))
}

// IncEffectFailure increments the failure counter for the named effect.
func (m *MatchingMetrics) IncEffectFailure(effect string) {
	if m == nil || m.effectFailures == nil {
		return
	}
	m.effectFailures.WithLabelValues(normalizeLabel(effect)).Inc()
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
