package adapters

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"parcel-portal/internal/core/logistics"
	"parcel-portal/internal/features/tracking/domain"
)

type trackingResponse struct {
	Waybill string                 `json:"waybill"`
	Events  []domain.TrackingEvent `json:"events"`
}

// LogisticsTrackingAdapter implements ports.TrackingProvider against the logistics API.
type LogisticsTrackingAdapter struct {
	client *logistics.Client
}

// NewLogisticsTrackingAdapter creates a new LogisticsTrackingAdapter.
func NewLogisticsTrackingAdapter(client *logistics.Client) *LogisticsTrackingAdapter {
	return &LogisticsTrackingAdapter{
		client: client,
	}
}

// GetTrackingHistory implements ports.TrackingProvider.
func (a *LogisticsTrackingAdapter) GetTrackingHistory(ctx context.Context, waybill string) (*domain.TrackingHistory, error) {
	var resp trackingResponse
	_, err := a.client.Do(ctx, logistics.Request{
		Method: http.MethodGet,
		Path:   "/courier/" + url.PathEscape(waybill) + "/tracking",
	}, &resp)
	if err != nil {
		if apiErr, ok := logistics.AsAPIError(err); ok && apiErr.StatusCode == http.StatusNotFound {
			return nil, domain.ErrTrackingNotFound
		}
		return nil, fmt.Errorf("tracking request failed: %w", err)
	}

	if resp.Waybill == "" {
		resp.Waybill = waybill
	}
	return domain.NewTrackingHistory(resp.Waybill, resp.Events), nil
}
