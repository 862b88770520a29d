package relyingparty

import (
	"context"
	"sync"

	"trustgate/pkg/platform/sentinel"
)

// InMemoryStore is the default ledger backend.
type InMemoryStore struct {
	mu    sync.RWMutex
	txns  map[string]Transaction
	order []string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{txns: make(map[string]Transaction)}
}

func (s *InMemoryStore) Save(_ context.Context, txn Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.txns[txn.TransactionID]; !exists {
		s.order = append(s.order, txn.TransactionID)
	}
	s.txns[txn.TransactionID] = txn
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, transactionID string) (Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	txn, ok := s.txns[transactionID]
	if !ok {
		return Transaction{}, sentinel.ErrNotFound
	}
	return txn, nil
}

func (s *InMemoryStore) ListByPrincipal(_ context.Context, principalID string) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Transaction
	for _, id := range s.order {
		if txn := s.txns[id]; txn.PrincipalID == principalID {
			out = append(out, txn)
		}
	}
	return out, nil
}
