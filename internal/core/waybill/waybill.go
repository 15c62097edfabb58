package waybill

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"parcel-portal/internal/core/cache"

	"github.com/google/uuid"
)

// Kind tells a server-issued waybill apart from a locally synthesized one.
type Kind string

const (
	// KindReal is a waybill returned by the logistics API.
	KindReal Kind = "real"
	// KindPlaceholder is synthesized when an accepted order came back without a waybill.
	KindPlaceholder Kind = "placeholder"
)

// PlaceholderPrefix starts every synthesized waybill id.
const PlaceholderPrefix = "PENDING-"

// Waybill is the identifier anchoring pickup scheduling, labels and tracking.
type Waybill struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`
}

// Real wraps a server-issued waybill id.
func Real(id string) Waybill {
	return Waybill{ID: id, Kind: KindReal}
}

// NewPlaceholder synthesizes a placeholder waybill with a random suffix.
func NewPlaceholder() Waybill {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return Waybill{ID: PlaceholderPrefix + suffix, Kind: KindPlaceholder}
}

// IsPlaceholder reports whether the waybill was synthesized locally.
func (w Waybill) IsPlaceholder() bool {
	return w.Kind == KindPlaceholder
}

// Registry remembers the kind of waybills issued to an owner (see session.Owner).
type Registry struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewRegistry creates a registry backed by the cache; entries expire after ttl.
func NewRegistry(c cache.Cache, ttl time.Duration) *Registry {
	return &Registry{
		cache: c,
		ttl:   ttl,
	}
}

func registryKey(owner, id string) string {
	return fmt.Sprintf("waybill:%s:%s", owner, id)
}

// Record stores the waybill for the owner.
func (r *Registry) Record(ctx context.Context, owner string, w Waybill) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("failed to marshal waybill: %w", err)
	}
	if err := r.cache.Set(ctx, registryKey(owner, w.ID), data, r.ttl); err != nil {
		return fmt.Errorf("failed to record waybill: %w", err)
	}
	return nil
}

// Resolve returns the recorded waybill. Ids the owner never recorded are
// treated as real, e.g. waybills opened from the order history.
func (r *Registry) Resolve(ctx context.Context, owner, id string) (Waybill, error) {
	data, err := r.cache.Get(ctx, registryKey(owner, id))
	if err != nil {
		if errors.Is(err, cache.ErrKeyNotFound) {
			return Real(id), nil
		}
		return Waybill{}, fmt.Errorf("failed to resolve waybill: %w", err)
	}

	var w Waybill
	if err := json.Unmarshal(data, &w); err != nil {
		return Waybill{}, fmt.Errorf("failed to unmarshal waybill: %w", err)
	}
	return w, nil
}
