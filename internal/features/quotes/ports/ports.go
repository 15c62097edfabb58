package ports

import (
	"context"

	"parcel-portal/internal/features/quotes/domain"
)

// QuoteService defines the primary port for estimating shipments.
type QuoteService interface {
	Estimate(ctx context.Context, packages []domain.PackageForm, addOns domain.AddOns) (*domain.QuoteResult, error)
}

// EstimateProvider defines the secondary port that prices packages.
type EstimateProvider interface {
	Estimate(ctx context.Context, packages []domain.PackageSpec, addOns domain.AddOns) ([]domain.CourierOffer, error)
}
