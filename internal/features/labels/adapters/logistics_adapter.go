package adapters

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"parcel-portal/internal/core/logistics"
	"parcel-portal/internal/features/labels/domain"
)

// LogisticsLabelAdapter implements ports.LabelGateway against the logistics API.
type LogisticsLabelAdapter struct {
	client *logistics.Client
}

// NewLogisticsLabelAdapter creates a new LogisticsLabelAdapter.
func NewLogisticsLabelAdapter(client *logistics.Client) *LogisticsLabelAdapter {
	return &LogisticsLabelAdapter{
		client: client,
	}
}

// Fetch returns the base64 documents of the label. A 404 means the label does not exist (yet).
func (a *LogisticsLabelAdapter) Fetch(ctx context.Context, waybill string, format domain.Format) ([]string, error) {
	var docs []string
	_, err := a.client.Do(ctx, logistics.Request{
		Method: http.MethodGet,
		Path:   "/courier/" + url.PathEscape(waybill) + "/label/" + string(format),
	}, &docs)
	if err != nil {
		if apiErr, ok := logistics.AsAPIError(err); ok && apiErr.StatusCode == http.StatusNotFound {
			return nil, domain.ErrLabelNotAvailable
		}
		return nil, fmt.Errorf("label request failed: %w", err)
	}
	return docs, nil
}
