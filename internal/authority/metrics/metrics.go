package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification authority.
type Metrics struct {
	// Submission outcomes by resulting status
	Submissions *prometheus.CounterVec

	// State queries, labeled by whether state existed
	StateQueries *prometheus.CounterVec
}

// New creates a Metrics instance with all authority metrics registered.
func New() *Metrics {
	return &Metrics{
		Submissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustgate_authority_submissions_total",
			Help: "Total identity submissions by resulting verification status",
		}, []string{"status"}),

		StateQueries: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustgate_authority_state_queries_total",
			Help: "Total verification state queries by whether state existed",
		}, []string{"known"}),
	}
}

// IncrementSubmission records a submission outcome.
func (m *Metrics) IncrementSubmission(status string) {
	if m != nil {
		m.Submissions.WithLabelValues(status).Inc()
	}
}

// IncrementStateQuery records a state query.
func (m *Metrics) IncrementStateQuery(known bool) {
	if m != nil {
		label := "false"
		if known {
			label = "true"
		}
		m.StateQueries.WithLabelValues(label).Inc()
	}
}
