package adapters

import (
	"context"
	"fmt"
	"net/http"

	"parcel-portal/internal/core/logistics"
	"parcel-portal/internal/features/quotes/domain"
)

// estimateRequest is the body of POST /courier/estimate.
// The backend schema requires the empty sender and receiver objects.
type estimateRequest struct {
	Packages []domain.PackageSpec `json:"packages"`
	Sender   struct{}             `json:"sender"`
	Receiver struct{}             `json:"receiver"`
	domain.AddOns
}

// LogisticsEstimateAdapter implements ports.EstimateProvider against the logistics API.
type LogisticsEstimateAdapter struct {
	client *logistics.Client
}

// NewLogisticsEstimateAdapter creates a new LogisticsEstimateAdapter.
func NewLogisticsEstimateAdapter(client *logistics.Client) *LogisticsEstimateAdapter {
	return &LogisticsEstimateAdapter{
		client: client,
	}
}

// Estimate prices the packages. Offers are returned as sent, including unpriced ones.
func (a *LogisticsEstimateAdapter) Estimate(ctx context.Context, packages []domain.PackageSpec, addOns domain.AddOns) ([]domain.CourierOffer, error) {
	body := estimateRequest{
		Packages: packages,
		AddOns:   addOns,
	}

	var offers []domain.CourierOffer
	if _, err := a.client.Do(ctx, logistics.Request{
		Method: http.MethodPost,
		Path:   "/courier/estimate",
		Body:   body,
	}, &offers); err != nil {
		return nil, fmt.Errorf("estimate request failed: %w", err)
	}

	return offers, nil
}
