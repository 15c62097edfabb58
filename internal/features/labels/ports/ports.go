package ports

import (
	"context"

	"parcel-portal/internal/core/waybill"
	"parcel-portal/internal/features/labels/domain"
)

// LabelService defines the primary port for label downloads.
type LabelService interface {
	Label(ctx context.Context, waybill, format string) (*domain.Label, error)
}

// LabelGateway fetches base64 encoded labels from the logistics API.
// This is a Secondary Port (Driven Port).
type LabelGateway interface {
	Fetch(ctx context.Context, waybill string, format domain.Format) ([]string, error)
}

// DemoRenderer produces a local label for waybills the API never issued.
type DemoRenderer interface {
	Render(waybill string) ([]byte, error)
}

// WaybillResolver tells placeholder waybills apart from real ones.
type WaybillResolver interface {
	Resolve(ctx context.Context, owner, id string) (waybill.Waybill, error)
}
