package authority

import (
	"context"
	"sync"

	"trustgate/pkg/platform/sentinel"
)

// In-memory stores keep the default deployment free of external services.
// They intentionally favor clarity over performance.
type InMemoryStateStore struct {
	mu     sync.RWMutex
	states map[string]State
}

func NewInMemoryStateStore() *InMemoryStateStore {
	return &InMemoryStateStore{states: make(map[string]State)}
}

func (s *InMemoryStateStore) Save(_ context.Context, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.PrincipalID] = state
	return nil
}

func (s *InMemoryStateStore) FindByPrincipal(_ context.Context, principalID string) (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if state, ok := s.states[principalID]; ok {
		return state, nil
	}
	return State{}, sentinel.ErrNotFound
}

type InMemoryIdentityStore struct {
	mu      sync.RWMutex
	records map[string]IdentityRecord
}

func NewInMemoryIdentityStore() *InMemoryIdentityStore {
	return &InMemoryIdentityStore{records: make(map[string]IdentityRecord)}
}

func (s *InMemoryIdentityStore) Save(_ context.Context, record IdentityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.PrincipalID] = record
	return nil
}

func (s *InMemoryIdentityStore) FindByPrincipal(_ context.Context, principalID string) (IdentityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.records[principalID]; ok {
		return record, nil
	}
	return IdentityRecord{}, sentinel.ErrNotFound
}
