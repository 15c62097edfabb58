package ports

import (
	"context"

	"parcel-portal/internal/features/history/domain"
)

// HistoryService defines the primary port for the order history.
type HistoryService interface {
	Page(ctx context.Context, page int, from, to string) (*domain.Page, error)
	// Export renders every page of the range as a spreadsheet.
	Export(ctx context.Context, from, to string) ([]byte, error)
}

// HistoryGateway fetches report pages from the logistics API.
// This is a Secondary Port (Driven Port).
type HistoryGateway interface {
	Page(ctx context.Context, page int, r domain.Range) ([]domain.Item, error)
}

// ReportRenderer turns history items into a downloadable document.
type ReportRenderer interface {
	Render(items []domain.Item, r domain.Range) ([]byte, error)
}
