package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"parcel-portal/internal/core/logistics"
	"parcel-portal/internal/features/pickups/domain"
)

type orderResponse struct {
	ID             json.RawMessage `json:"id"`
	Courier        string          `json:"courier"`
	Price          *float64        `json:"price"`
	PickupDateFrom string          `json:"pickupDateFrom"`
	PickupDateTo   string          `json:"pickupDateTo"`
}

// LogisticsPickupAdapter implements ports.PickupGateway against the logistics API.
type LogisticsPickupAdapter struct {
	client *logistics.Client
}

// NewLogisticsPickupAdapter creates a new LogisticsPickupAdapter.
func NewLogisticsPickupAdapter(client *logistics.Client) *LogisticsPickupAdapter {
	return &LogisticsPickupAdapter{
		client: client,
	}
}

// Order requests a courier pickup for the window.
func (a *LogisticsPickupAdapter) Order(ctx context.Context, window domain.Window) (*domain.Confirmation, error) {
	var resp orderResponse
	if _, err := a.client.Do(ctx, logistics.Request{
		Method: http.MethodPost,
		Path:   "/courier/pickup/" + url.PathEscape(window.Waybill) + "/order",
		Query: url.Values{
			"from": {window.FromParam()},
			"to":   {window.ToParam()},
		},
	}, &resp); err != nil {
		return nil, fmt.Errorf("pickup request failed: %w", err)
	}

	return &domain.Confirmation{
		ID:       rawID(resp.ID),
		Courier:  resp.Courier,
		Price:    resp.Price,
		DateFrom: resp.PickupDateFrom,
		DateTo:   resp.PickupDateTo,
	}, nil
}

// Availability fetches the pickup slots of the courier for the zip code.
func (a *LogisticsPickupAdapter) Availability(ctx context.Context, courier, zipCode string) (map[string]domain.Slot, error) {
	slots := map[string]domain.Slot{}
	if _, err := a.client.Do(ctx, logistics.Request{
		Method: http.MethodGet,
		Path:   "/courier/" + url.PathEscape(courier) + "/pickups",
		Query:  url.Values{"zipCode": {zipCode}},
	}, &slots); err != nil {
		return nil, fmt.Errorf("pickup availability request failed: %w", err)
	}
	return slots, nil
}

// rawID renders a string or numeric id as text.
func rawID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
