package authority

import "context"

// Stores are interface-driven so the in-memory and Redis implementations
// stay swappable without rewiring the service.
type StateStore interface {
	Save(ctx context.Context, state State) error
	FindByPrincipal(ctx context.Context, principalID string) (State, error)
}

// IdentityStore holds hashed submissions. It is deliberately disjoint from
// StateStore: nothing that reads verification state can reach identity data.
type IdentityStore interface {
	Save(ctx context.Context, record IdentityRecord) error
	FindByPrincipal(ctx context.Context, principalID string) (IdentityRecord, error)
}
