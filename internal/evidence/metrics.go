package evidence

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Candidate outcomes recorded by the orchestrator.
const (
	OutcomeAccepted   = "accepted"
	OutcomeMalformed  = "malformed"
	OutcomeDuplicate  = "duplicate"
	OutcomeBlockedURL = "blocked_url"
	OutcomeGarbage    = "garbage"
	OutcomeIrrelevant = "irrelevant"
)

// Metrics collects engine counters. A nil *Metrics records nothing.
type Metrics struct {
	Queries        *prometheus.CounterVec
	Candidates     *prometheus.CounterVec
	Confidence     prometheus.Histogram
	SearchDuration prometheus.Histogram
}

// NewMetrics registers the engine collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Queries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lyricnote_search_queries_total",
				Help: "Search provider queries by status",
			},
			[]string{"status"},
		),
		Candidates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lyricnote_search_candidates_total",
				Help: "Raw search results by filtering outcome",
			},
			[]string{"outcome"},
		),
		Confidence: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lyricnote_reference_confidence",
				Help:    "Confidence of accepted references",
				Buckets: []float64{0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
			},
		),
		SearchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lyricnote_search_duration_seconds",
				Help:    "Wall time of one orchestrated search",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

func (m *Metrics) query(status string) {
	if m == nil {
		return
	}
	m.Queries.WithLabelValues(status).Inc()
}

func (m *Metrics) candidate(outcome string) {
	if m == nil {
		return
	}
	m.Candidates.WithLabelValues(outcome).Inc()
}

func (m *Metrics) accepted(confidence float64) {
	if m == nil {
		return
	}
	m.Candidates.WithLabelValues(OutcomeAccepted).Inc()
	m.Confidence.Observe(confidence)
}

func (m *Metrics) searched(d time.Duration) {
	if m == nil {
		return
	}
	m.SearchDuration.Observe(d.Seconds())
}
