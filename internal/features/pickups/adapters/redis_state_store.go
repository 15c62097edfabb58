package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"parcel-portal/internal/core/cache"
	"parcel-portal/internal/features/pickups/domain"
)

// RedisStateStore implements ports.StateStore using the cache adaptation.
type RedisStateStore struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewRedisStateStore creates a new RedisStateStore.
func NewRedisStateStore(c cache.Cache, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{
		cache: c,
		ttl:   ttl,
	}
}

func stateKey(owner, waybill string) string {
	return fmt.Sprintf("pickup:%s:%s", owner, waybill)
}

// Load retrieves the pickup state. Unknown waybills are idle.
func (r *RedisStateStore) Load(ctx context.Context, owner, waybill string) (*domain.PickupState, error) {
	data, err := r.cache.Get(ctx, stateKey(owner, waybill))
	if err != nil {
		if errors.Is(err, cache.ErrKeyNotFound) {
			return domain.Idle(waybill), nil
		}
		return nil, fmt.Errorf("failed to load pickup state: %w", err)
	}

	var s domain.PickupState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pickup state: %w", err)
	}
	return &s, nil
}

// Save stores the pickup state.
func (r *RedisStateStore) Save(ctx context.Context, owner string, state *domain.PickupState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal pickup state: %w", err)
	}
	if err := r.cache.Set(ctx, stateKey(owner, state.Waybill), data, r.ttl); err != nil {
		return fmt.Errorf("failed to save pickup state: %w", err)
	}
	return nil
}
