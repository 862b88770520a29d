package authority

import "time"

// Status enumerates the verification lifecycle of a principal.
type Status string

const (
	StatusNotVerified Status = "not_verified"
	StatusPending     Status = "pending"
	StatusVerified    Status = "verified"
	StatusRejected    Status = "rejected"
)

// Capability is an enumerated permission grantable only alongside a
// verified status.
type Capability string

const (
	CapabilityInvest   Capability = "invest"
	CapabilityTrade    Capability = "trade"
	CapabilityWithdraw Capability = "withdraw"
	CapabilityTransfer Capability = "transfer"
	CapabilityBorrow   Capability = "borrow"
)

// RiskTier is the authority's coarse risk classification of a principal.
type RiskTier string

const (
	RiskTierLow    RiskTier = "low"
	RiskTierMedium RiskTier = "medium"
	RiskTierHigh   RiskTier = "high"
)

// State is the authority-owned verification summary of one principal.
// Invariants: Capabilities is non-empty only when Status is verified, and
// VerificationID is set iff Status is verified. State never carries raw
// identity fields; those live only in IdentityRecord.
type State struct {
	PrincipalID     string       `json:"principal_id"`
	Status          Status       `json:"status"`
	VerificationID  string       `json:"verification_id,omitempty"`
	VerifiedAt      *time.Time   `json:"verified_at,omitempty"`
	Capabilities    []Capability `json:"capability_set"`
	RiskTier        RiskTier     `json:"risk_tier"`
	ComplianceFlags []string     `json:"compliance_flags"`
}

// HasCapability reports whether the state grants the given capability.
func (s State) HasCapability(c Capability) bool {
	for _, got := range s.Capabilities {
		if got == c {
			return true
		}
	}
	return false
}

// DefaultState is the synthesized view for a principal that never submitted.
func DefaultState(principalID string) State {
	return State{
		PrincipalID:  principalID,
		Status:       StatusNotVerified,
		Capabilities: []Capability{},
		RiskTier:     RiskTierMedium,
	}
}

// IdentityRecord holds the salted hash of a submission. It exists only for
// audit comparison and is never serialized outward; no API returns it.
type IdentityRecord struct {
	PrincipalID  string
	IdentityHash string
	SubmittedAt  time.Time
}

// SubmissionResult is what the principal gets back from Submit.
type SubmissionResult struct {
	Status         Status     `json:"verification_status"`
	VerificationID string     `json:"verification_id,omitempty"`
	VerifiedAt     *time.Time `json:"verified_at,omitempty"`
	Credential     string     `json:"credential,omitempty"`
	Reason         string     `json:"reason,omitempty"`
}
