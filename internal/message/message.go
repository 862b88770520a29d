// Package message defines the envelope exchanged between parties. Envelopes
// are immutable after construction; behavior lives in the receiving service,
// never on the envelope itself.
package message

import (
	"time"

	"github.com/google/uuid"
)

// Kind is the closed set of envelope types. Dispatch on Kind is an
// exhaustive switch in each receiver, so adding a kind is a compile-time
// visible change.
type Kind string

const (
	KindSubmission           Kind = "kyc_submission"
	KindVerificationResponse Kind = "kyc_verification_response"
	KindStateRequest         Kind = "verification_state_request"
	KindStateResponse        Kind = "verification_state_response"
	KindInvestmentRequest    Kind = "investment_request"
	KindInvestmentResponse   Kind = "investment_response"
	KindTaskDelegation       Kind = "task_delegation"
	KindStatusUpdate         Kind = "status_update"
)

// Envelope is the structured unit of inter-party communication. Payload is
// opaque to the envelope; receivers decode it according to Kind.
type Envelope struct {
	ID        string         `json:"message_id"`
	Kind      Kind           `json:"message_type"`
	Sender    string         `json:"sender"`
	Recipient string         `json:"recipient"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   map[string]any `json:"payload"`
}

// New constructs an envelope with a fresh id and timestamp.
func New(kind Kind, sender, recipient string, payload map[string]any) Envelope {
	return Envelope{
		ID:        uuid.NewString(),
		Kind:      kind,
		Sender:    sender,
		Recipient: recipient,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// Reply constructs a response envelope addressed back to the sender of in.
func Reply(in Envelope, kind Kind, sender string, payload map[string]any) Envelope {
	return New(kind, sender, in.Sender, payload)
}
