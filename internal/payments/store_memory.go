package payments

import (
	"context"
	"sync"

	"trustgate/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	records  map[string]Record
	receipts map[string]Receipt
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records:  make(map[string]Record),
		receipts: make(map[string]Receipt),
	}
}

func (s *InMemoryStore) Save(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.PaymentID] = record
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, paymentID string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.records[paymentID]; ok {
		return record, nil
	}
	return Record{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) Complete(_ context.Context, record Record, receipt Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.PaymentID] = record
	s.receipts[receipt.PaymentID] = receipt
	return nil
}

func (s *InMemoryStore) FindReceiptByPayment(_ context.Context, paymentID string) (Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if receipt, ok := s.receipts[paymentID]; ok {
		return receipt, nil
	}
	return Receipt{}, sentinel.ErrNotFound
}
