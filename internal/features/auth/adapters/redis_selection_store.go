package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"parcel-portal/internal/core/cache"
	quotes "parcel-portal/internal/features/quotes/domain"
)

// RedisSelectionStore implements ports.SelectionStore using the cache adaptation.
type RedisSelectionStore struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewRedisSelectionStore creates a new RedisSelectionStore. Pending selections expire after ttl.
func NewRedisSelectionStore(c cache.Cache, ttl time.Duration) *RedisSelectionStore {
	return &RedisSelectionStore{
		cache: c,
		ttl:   ttl,
	}
}

func pendingKey(token string) string {
	return "pending:" + token
}

// Put stores the selection under the continuation token.
func (r *RedisSelectionStore) Put(ctx context.Context, token string, selection quotes.Selection) error {
	data, err := json.Marshal(selection)
	if err != nil {
		return fmt.Errorf("failed to marshal selection: %w", err)
	}

	if err := r.cache.Set(ctx, pendingKey(token), data, r.ttl); err != nil {
		return fmt.Errorf("failed to store pending selection: %w", err)
	}
	return nil
}

// Take atomically retrieves and removes the selection.
// It returns nil, nil when the token is unknown, expired or already consumed.
func (r *RedisSelectionStore) Take(ctx context.Context, token string) (*quotes.Selection, error) {
	data, err := r.cache.Take(ctx, pendingKey(token))
	if err != nil {
		if errors.Is(err, cache.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to take pending selection: %w", err)
	}

	var selection quotes.Selection
	if err := json.Unmarshal(data, &selection); err != nil {
		// Already removed from the store, so it cannot be retried.
		return nil, fmt.Errorf("failed to unmarshal pending selection: %w", err)
	}
	return &selection, nil
}
