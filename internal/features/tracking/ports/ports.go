package ports

import (
	"context"

	"parcel-portal/internal/core/waybill"
	"parcel-portal/internal/features/tracking/domain"
)

// TrackingService defines the primary port for shipment tracking.
type TrackingService interface {
	GetTrackingHistory(ctx context.Context, waybill string) (*domain.TrackingHistory, error)
}

// TrackingProvider fetches tracking events from the logistics API.
// This is a Secondary Port (Driven Port).
type TrackingProvider interface {
	GetTrackingHistory(ctx context.Context, waybill string) (*domain.TrackingHistory, error)
}

// WaybillResolver tells placeholder waybills apart from real ones.
type WaybillResolver interface {
	Resolve(ctx context.Context, owner, id string) (waybill.Waybill, error)
}
