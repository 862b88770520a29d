package relyingparty

import "time"

// TransactionStatus enumerates the lifecycle of an investment request as the
// relying party sees it.
type TransactionStatus string

const (
	StatusPendingVerification TransactionStatus = "pending_verification"
	StatusCompleted           TransactionStatus = "completed"
	StatusBlocked             TransactionStatus = "blocked"
)

// Transaction is one entry in the relying party's ledger. Every request gets
// a row, including the ones that end up blocked.
type Transaction struct {
	TransactionID  string            `json:"transaction_id"`
	PrincipalID    string            `json:"principal_id"`
	RelyingPartyID string            `json:"relying_party_id"`
	Amount         float64           `json:"amount"`
	Status         TransactionStatus `json:"status"`
	Reason         string            `json:"reason,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	DecidedAt      *time.Time        `json:"decided_at,omitempty"`
}
