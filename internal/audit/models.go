package audit

import "time"

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp   time.Time `json:"timestamp"`
	PrincipalID string    `json:"principal_id"`
	Subject     string    `json:"subject"`
	Action      string    `json:"action"`
	Party       string    `json:"party,omitempty"`
	Decision    string    `json:"decision,omitempty"`
	Reason      string    `json:"reason,omitempty"`
}
