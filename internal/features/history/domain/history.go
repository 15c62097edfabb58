package domain

import (
	"strings"
	"time"

	"parcel-portal/internal/core/apperror"
)

const (
	// PageSize is the fixed page size of the report endpoint.
	PageSize = 10
	// MaxExportPages bounds the export walk.
	MaxExportPages = 50
	// DateLayout is the format of the report date range.
	DateLayout = "2006-01-02"
	// DefaultRangeDays is the lookback used when no start date is given.
	DefaultRangeDays = 30
)

// Party is the sender or receiver as shown in the history.
type Party struct {
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	CompanyName string `json:"companyName"`
	City        string `json:"city"`
}

// DisplayName prefers the company name, then the full name.
func (p Party) DisplayName() string {
	if strings.TrimSpace(p.CompanyName) != "" {
		return p.CompanyName
	}
	if full := strings.TrimSpace(p.Name + " " + p.Surname); full != "" {
		return full
	}
	return "-"
}

// Item is one past order.
type Item struct {
	ID           string   `json:"id"`
	Waybill      *string  `json:"waybill"`
	Status       string   `json:"status"`
	Courier      string   `json:"courier"`
	CourierName  string   `json:"courierName"`
	Price        *float64 `json:"price"`
	CreationDate string   `json:"creationDate"`
	Sender       Party    `json:"sender"`
	Receiver     Party    `json:"receiver"`
}

// Page is one page of the order history.
type Page struct {
	// Page is 0-based.
	Page     int    `json:"page"`
	Items    []Item `json:"items"`
	LastPage bool   `json:"lastPage"`
}

// NewPage marks a page as the last one when it is not full.
func NewPage(page int, items []Item) *Page {
	if items == nil {
		items = []Item{}
	}
	return &Page{
		Page:     page,
		Items:    items,
		LastPage: len(items) < PageSize,
	}
}

// Range is the creation date range of the report.
type Range struct {
	From string `json:"dateFrom"`
	To   string `json:"dateTo"`
}

// ResolveRange fills missing bounds (today, and DefaultRangeDays before the end) and
// checks that both bounds are dates in order.
func ResolveRange(from, to string, now time.Time) (Range, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)

	end := now
	if to != "" {
		parsed, err := time.Parse(DateLayout, to)
		if err != nil {
			return Range{}, apperror.NewValidationError("invalid date range", apperror.Field("to", "expected YYYY-MM-DD"))
		}
		end = parsed
	}

	start := end.AddDate(0, 0, -DefaultRangeDays)
	if from != "" {
		parsed, err := time.Parse(DateLayout, from)
		if err != nil {
			return Range{}, apperror.NewValidationError("invalid date range", apperror.Field("from", "expected YYYY-MM-DD"))
		}
		start = parsed
	}

	if start.After(end) {
		return Range{}, apperror.NewValidationError("invalid date range", apperror.Field("from", "must not be after to"))
	}
	return Range{From: start.Format(DateLayout), To: end.Format(DateLayout)}, nil
}
