package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"parcel-portal/internal/core/logger"
	"parcel-portal/internal/core/logistics"
	"parcel-portal/internal/features/history/domain"
	quotes "parcel-portal/internal/features/quotes/domain"

	"go.uber.org/zap"
)

type apiParty struct {
	Name        string          `json:"name"`
	Surname     string          `json:"surname"`
	CompanyName string          `json:"companyName"`
	City        json.RawMessage `json:"city"`
}

// cityName accepts both a plain string and the nested {cityName} object.
func (p apiParty) cityName() string {
	raw := bytes.TrimSpace(p.City)
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		CityName string `json:"cityName"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.CityName
	}
	return ""
}

func (p apiParty) toDomain() domain.Party {
	return domain.Party{
		Name:        p.Name,
		Surname:     p.Surname,
		CompanyName: p.CompanyName,
		City:        p.cityName(),
	}
}

type apiItem struct {
	ID           json.RawMessage `json:"id"`
	Waybill      *string         `json:"waybill"`
	Status       string          `json:"status"`
	Courier      string          `json:"courier"`
	Service      string          `json:"service"`
	Price        json.Number     `json:"price"`
	CreationDate string          `json:"creationDate"`
	Sender       apiParty        `json:"sender"`
	Receiver     apiParty        `json:"receiver"`
}

func (i apiItem) toDomain() domain.Item {
	courier := i.Courier
	if courier == "" {
		courier = i.Service
	}

	item := domain.Item{
		ID:           rawID(i.ID),
		Waybill:      i.Waybill,
		Status:       i.Status,
		Courier:      courier,
		CourierName:  quotes.FormatCourierName(courier),
		CreationDate: i.CreationDate,
		Sender:       i.Sender.toDomain(),
		Receiver:     i.Receiver.toDomain(),
	}
	if price, err := i.Price.Float64(); err == nil {
		item.Price = &price
	}
	return item
}

// LogisticsHistoryAdapter implements ports.HistoryGateway against the logistics API.
type LogisticsHistoryAdapter struct {
	client *logistics.Client
}

// NewLogisticsHistoryAdapter creates a new LogisticsHistoryAdapter.
func NewLogisticsHistoryAdapter(client *logistics.Client) *LogisticsHistoryAdapter {
	return &LogisticsHistoryAdapter{
		client: client,
	}
}

// Page fetches one report page. A response that is not a list counts as empty.
func (a *LogisticsHistoryAdapter) Page(ctx context.Context, page int, r domain.Range) ([]domain.Item, error) {
	var raw json.RawMessage
	if _, err := a.client.Do(ctx, logistics.Request{
		Method: http.MethodPost,
		Path:   "/report/" + strconv.Itoa(page),
		Body:   r,
	}, &raw); err != nil {
		return nil, fmt.Errorf("report request failed: %w", err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		logger.Get().Debug("Report page is not a list, treating as empty", zap.Int("page", page))
		return []domain.Item{}, nil
	}

	var items []apiItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode report page: %w", err)
	}

	out := make([]domain.Item, 0, len(items))
	for _, item := range items {
		out = append(out, item.toDomain())
	}
	return out, nil
}

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
