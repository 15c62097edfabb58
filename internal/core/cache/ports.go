package cache

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned (wrapped) when a key does not exist.
var ErrKeyNotFound = errors.New("key not found")

// Cache defines the key-value operations the session, selection and workflow stores rely on.
// This is a port that can be implemented by different providers (Redis, in-memory, etc.).
type Cache interface {
	// Get retrieves a value by key.
	// Returns an error wrapping ErrKeyNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the specified key and TTL.
	// TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetNX stores a value only if the key does not exist yet.
	// It reports whether the value was stored.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// Take atomically retrieves and removes a value.
	// A key can be taken at most once.
	Take(ctx context.Context, key string) ([]byte, error)

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Ping checks if the cache service is reachable.
	Ping(ctx context.Context) error

	// Close closes the cache connection.
	Close() error
}
