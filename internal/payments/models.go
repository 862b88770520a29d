package payments

import "time"

// Status enumerates the payment lifecycle. Records only advance forward
// along created → authorized → processing → completed; failed and cancelled
// are reachable from any non-terminal state and are terminal.
type Status string

const (
	StatusCreated    Status = "created"
	StatusAuthorized Status = "authorized"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Record is a payment for its full lifetime. Only the engine mutates it.
type Record struct {
	PaymentID string            `json:"payment_id"`
	Amount    float64           `json:"amount"`
	Currency  string            `json:"currency"`
	Purpose   string            `json:"purpose"`
	Status    Status            `json:"status"`
	RiskScore *float64          `json:"risk_score,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`

	AuthID       string `json:"auth_id,omitempty"`
	AuthorizedBy string `json:"authorized_by,omitempty"`
	AuthMethod   string `json:"auth_method,omitempty"`

	CreatedAt    time.Time  `json:"created_at"`
	AuthorizedAt *time.Time `json:"authorized_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// Authorization is returned from a successful Authorize call.
type Authorization struct {
	PaymentID    string    `json:"payment_id"`
	AuthID       string    `json:"auth_id"`
	RiskScore    float64   `json:"risk_score"`
	AuthorizedAt time.Time `json:"authorized_at"`
	Status       Status    `json:"status"`
}

// Receipt is issued exactly once per payment, on confirmation.
type Receipt struct {
	ReceiptID        string    `json:"receipt_id"`
	PaymentID        string    `json:"payment_id"`
	TransactionID    string    `json:"transaction_id"`
	Amount           float64   `json:"amount"`
	Currency         string    `json:"currency"`
	Status           Status    `json:"status"`
	CompletedAt      time.Time `json:"completed_at"`
	ConfirmationCode string    `json:"confirmation_code"`
}
