package inflight

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parcel-portal/internal/core/cache"
	"parcel-portal/internal/core/logger"

	"go.uber.org/zap"
)

// ErrSubmissionInProgress is returned when the same submission is already outstanding.
var ErrSubmissionInProgress = errors.New("submission already in progress")

// Guard serializes submissions per key (session, waybill) across instances.
type Guard struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewGuard creates a guard whose locks expire after ttl, so a crashed request
// cannot block a session forever.
func NewGuard(c cache.Cache, ttl time.Duration) *Guard {
	return &Guard{
		cache: c,
		ttl:   ttl,
	}
}

// Acquire takes the lock for key and returns its release function.
// It fails with ErrSubmissionInProgress if the lock is already held.
func (g *Guard) Acquire(ctx context.Context, key string) (func(), error) {
	lockKey := "inflight:" + key
	ok, err := g.cache.SetNX(ctx, lockKey, []byte("1"), g.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire submission lock: %w", err)
	}
	if !ok {
		return nil, ErrSubmissionInProgress
	}

	return func() {
		// The request context may already be cancelled here.
		if err := g.cache.Delete(context.WithoutCancel(ctx), lockKey); err != nil {
			logger.Get().Warn("Failed to release submission lock", zap.String("key", lockKey), zap.Error(err))
		}
	}, nil
}
