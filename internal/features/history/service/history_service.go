package service

import (
	"context"
	"fmt"
	"time"

	"parcel-portal/internal/core/apperror"
	"parcel-portal/internal/core/logger"
	"parcel-portal/internal/features/history/domain"
	"parcel-portal/internal/features/history/ports"

	"go.uber.org/zap"
)

// HistoryServiceImpl implements ports.HistoryService.
type HistoryServiceImpl struct {
	gateway  ports.HistoryGateway
	renderer ports.ReportRenderer
	now      func() time.Time
}

// NewHistoryService creates a new HistoryServiceImpl.
func NewHistoryService(gateway ports.HistoryGateway, renderer ports.ReportRenderer) *HistoryServiceImpl {
	return &HistoryServiceImpl{
		gateway:  gateway,
		renderer: renderer,
		now:      time.Now,
	}
}

// Page returns one page of the order history.
func (s *HistoryServiceImpl) Page(ctx context.Context, page int, from, to string) (*domain.Page, error) {
	if page < 0 {
		return nil, apperror.NewValidationError("invalid page", apperror.Field("page", "must not be negative"))
	}

	r, err := domain.ResolveRange(from, to, s.now())
	if err != nil {
		return nil, err
	}

	items, err := s.gateway.Page(ctx, page, r)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load history: %w", err)
	}
	return domain.NewPage(page, items), nil
}

// Export walks the pages of the range, at most MaxExportPages, and renders them.
func (s *HistoryServiceImpl) Export(ctx context.Context, from, to string) ([]byte, error) {
	r, err := domain.ResolveRange(from, to, s.now())
	if err != nil {
		return nil, err
	}

	var all []domain.Item
	complete := false
	for page := 0; page < domain.MaxExportPages; page++ {
		items, err := s.gateway.Page(ctx, page, r)
		if err != nil {
			return nil, fmt.Errorf("service: failed to load history page %d: %w", page, err)
		}
		all = append(all, items...)
		if domain.NewPage(page, items).LastPage {
			complete = true
			break
		}
	}

	if !complete {
		logger.Get().Warn("History export truncated",
			zap.Int("pages", domain.MaxExportPages),
			zap.String("from", r.From),
			zap.String("to", r.To),
		)
	}

	data, err := s.renderer.Render(all, r)
	if err != nil {
		return nil, fmt.Errorf("service: failed to render history: %w", err)
	}
	return data, nil
}
