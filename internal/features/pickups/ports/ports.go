package ports

import (
	"context"

	"parcel-portal/internal/core/waybill"
	"parcel-portal/internal/features/pickups/domain"
)

// PickupService defines the primary port for pickup scheduling.
type PickupService interface {
	Schedule(ctx context.Context, form domain.WindowForm) (*domain.PickupState, error)
	Status(ctx context.Context, waybill string) (*domain.PickupState, error)
	Availability(ctx context.Context, courier, zipCode string) ([]domain.DayAvailability, error)
}

// PickupGateway defines the secondary port to the logistics API.
// This is a Secondary Port (Driven Port).
type PickupGateway interface {
	Order(ctx context.Context, window domain.Window) (*domain.Confirmation, error)
	Availability(ctx context.Context, courier, zipCode string) (map[string]domain.Slot, error)
}

// StateStore keeps the pickup state per owner and waybill.
type StateStore interface {
	// Load returns the stored state, or an idle one if none is stored.
	Load(ctx context.Context, owner, waybill string) (*domain.PickupState, error)
	Save(ctx context.Context, owner string, state *domain.PickupState) error
}

// WaybillResolver tells placeholder waybills apart from real ones.
type WaybillResolver interface {
	Resolve(ctx context.Context, owner, id string) (waybill.Waybill, error)
}

// SubmissionGuard prevents concurrent submissions for the same key.
type SubmissionGuard interface {
	Acquire(ctx context.Context, key string) (func(), error)
}
