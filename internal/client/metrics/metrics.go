// Package metrics exposes Prometheus instrumentation of journal submissions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Submission outcomes.
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation"
	OutcomeCreation   = "creation"
	OutcomeAnalysis   = "analysis"
	OutcomeRejected   = "rejected"
	OutcomeSession    = "session"
)

// Submission phases.
const (
	PhaseCreate  = "create"
	PhaseAnalyze = "analyze"
)

type Metrics struct {
	registry      *prometheus.Registry
	submissions   *prometheus.CounterVec
	phaseDuration *prometheus.HistogramVec
}

// New registers the journal collectors plus the Go runtime collectors on a
// private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "moodjournal",
				Name:      "submissions_total",
				Help:      "Journal submissions by outcome.",
			},
			[]string{"outcome"},
		),
		phaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "moodjournal",
				Name:      "phase_duration_seconds",
				Help:      "Latency of the create and analyze collaborator calls.",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"phase"},
		),
	}

	m.registry.MustRegister(
		m.submissions,
		m.phaseDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) SubmissionFinished(outcome string) {
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObservePhase(phase string, d time.Duration) {
	m.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
