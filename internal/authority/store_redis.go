package authority

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"trustgate/pkg/platform/sentinel"
)

const stateKeyPrefix = "trustgate:verification-state:"

// RedisStateStore persists verification states as JSON values so state
// survives process restarts when Redis is configured.
type RedisStateStore struct {
	client *redis.Client
}

func NewRedisStateStore(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{client: client}
}

func (s *RedisStateStore) Save(ctx context.Context, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal verification state: %w", err)
	}
	if err := s.client.Set(ctx, stateKeyPrefix+state.PrincipalID, payload, 0).Err(); err != nil {
		return fmt.Errorf("save verification state: %w", err)
	}
	return nil
}

func (s *RedisStateStore) FindByPrincipal(ctx context.Context, principalID string) (State, error) {
	payload, err := s.client.Get(ctx, stateKeyPrefix+principalID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return State{}, sentinel.ErrNotFound
		}
		return State{}, fmt.Errorf("find verification state: %w", err)
	}
	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return State{}, fmt.Errorf("unmarshal verification state: %w", err)
	}
	return state, nil
}
