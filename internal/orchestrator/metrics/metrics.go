package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for plan execution.
type Metrics struct {
	// Step executions by action and final status
	Steps *prometheus.CounterVec

	// Plan runs by outcome
	Plans *prometheus.CounterVec

	// Plan wall time in seconds
	PlanDuration prometheus.Histogram
}

// New creates a Metrics instance with all orchestrator metrics registered.
func New() *Metrics {
	return &Metrics{
		Steps: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustgate_orchestrator_steps_total",
			Help: "Total step executions by action and final status",
		}, []string{"action", "status"}),

		Plans: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustgate_orchestrator_plans_total",
			Help: "Total plan runs by outcome",
		}, []string{"outcome"}),

		PlanDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "trustgate_orchestrator_plan_duration_seconds",
			Help:    "Plan execution wall time in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// IncrementStep records a step execution outcome.
func (m *Metrics) IncrementStep(action, status string) {
	if m != nil {
		m.Steps.WithLabelValues(action, status).Inc()
	}
}

// IncrementPlan records a plan outcome.
func (m *Metrics) IncrementPlan(outcome string) {
	if m != nil {
		m.Plans.WithLabelValues(outcome).Inc()
	}
}

// ObservePlanDuration records a plan's wall time.
func (m *Metrics) ObservePlanDuration(seconds float64) {
	if m != nil {
		m.PlanDuration.Observe(seconds)
	}
}
