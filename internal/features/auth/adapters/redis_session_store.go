package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"parcel-portal/internal/core/cache"
	"parcel-portal/internal/core/session"
)

// RedisSessionStore implements ports.SessionStore using the cache adaptation.
type RedisSessionStore struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewRedisSessionStore creates a new RedisSessionStore. Sessions expire after ttl of inactivity.
func NewRedisSessionStore(c cache.Cache, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		cache: c,
		ttl:   ttl,
	}
}

func sessionKey(id string) string {
	return "session:" + id
}

// Load retrieves the session. A missing session yields an error wrapping cache.ErrKeyNotFound.
func (r *RedisSessionStore) Load(ctx context.Context, id string) (*session.Session, error) {
	data, err := r.cache.Get(ctx, sessionKey(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var s session.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

// Save stores the session and refreshes its TTL.
func (r *RedisSessionStore) Save(ctx context.Context, s *session.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.cache.Set(ctx, sessionKey(s.ID), data, r.ttl); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes the session.
func (r *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := r.cache.Delete(ctx, sessionKey(id)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
