package payments

import "context"

// Store persists payment records and receipts. Implementations are pure
// I/O; the service owns all transition rules and holds the per-payment lock
// around every read-modify-write.
//
// Complete writes the final record and its receipt as one atomic operation:
// a payment is never durably completed without its receipt, and a failed
// completion leaves the previously committed record untouched.
type Store interface {
	Save(ctx context.Context, record Record) error
	FindByID(ctx context.Context, paymentID string) (Record, error)
	Complete(ctx context.Context, record Record, receipt Receipt) error
	FindReceiptByPayment(ctx context.Context, paymentID string) (Receipt, error)
}
