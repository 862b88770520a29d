package relyingparty

import "context"

// Store persists the relying party's transaction ledger.
type Store interface {
	Save(ctx context.Context, txn Transaction) error
	FindByID(ctx context.Context, transactionID string) (Transaction, error)
	ListByPrincipal(ctx context.Context, principalID string) ([]Transaction, error)
}
