package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the relying party.
type Metrics struct {
	// Investment decisions by outcome
	Decisions *prometheus.CounterVec
}

// New creates a Metrics instance with all relying party metrics registered.
func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustgate_relyingparty_decisions_total",
			Help: "Total investment request decisions by outcome",
		}, []string{"outcome"}),
	}
}

// IncrementDecision records a decision outcome.
func (m *Metrics) IncrementDecision(outcome string) {
	if m != nil {
		m.Decisions.WithLabelValues(outcome).Inc()
	}
}
