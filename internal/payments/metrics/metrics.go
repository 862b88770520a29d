package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the staged authorization engine.
type Metrics struct {
	// Stage transitions by stage and outcome
	Stages *prometheus.CounterVec

	// Risk scores observed during authorization
	RiskScores prometheus.Histogram

	// Authorizations vetoed by the risk policy
	RiskVetoes prometheus.Counter
}

// New creates a Metrics instance with all engine metrics registered.
func New() *Metrics {
	return &Metrics{
		Stages: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustgate_payment_stages_total",
			Help: "Total payment stage transitions by stage and outcome",
		}, []string{"stage", "outcome"}),

		RiskScores: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "trustgate_payment_risk_score",
			Help:    "Risk scores computed during payment authorization",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),

		RiskVetoes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustgate_payment_risk_vetoes_total",
			Help: "Total authorizations rejected by the risk policy",
		}),
	}
}

// IncrementStage records a stage transition outcome.
func (m *Metrics) IncrementStage(stage, outcome string) {
	if m != nil {
		m.Stages.WithLabelValues(stage, outcome).Inc()
	}
}

// ObserveRiskScore records a computed risk score.
func (m *Metrics) ObserveRiskScore(score float64) {
	if m != nil {
		m.RiskScores.Observe(score)
	}
}

// IncrementRiskVeto records a policy veto.
func (m *Metrics) IncrementRiskVeto() {
	if m != nil {
		m.RiskVetoes.Inc()
	}
}
