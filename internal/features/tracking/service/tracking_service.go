package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"parcel-portal/internal/core/apperror"
	"parcel-portal/internal/core/session"
	"parcel-portal/internal/features/tracking/domain"
	"parcel-portal/internal/features/tracking/ports"
)

// TrackingService resolves tracking requests, answering placeholder waybills locally.
type TrackingService struct {
	provider ports.TrackingProvider
	waybills ports.WaybillResolver
	now      func() time.Time
}

// NewTrackingService creates a new TrackingService.
func NewTrackingService(provider ports.TrackingProvider, waybills ports.WaybillResolver) *TrackingService {
	return &TrackingService{
		provider: provider,
		waybills: waybills,
		now:      time.Now,
	}
}

// GetTrackingHistory retrieves the timeline of the waybill.
func (s *TrackingService) GetTrackingHistory(ctx context.Context, waybill string) (*domain.TrackingHistory, error) {
	waybill = strings.TrimSpace(waybill)
	if waybill == "" {
		return nil, apperror.NewValidationError("waybill is required", apperror.Field("waybill", "required"))
	}

	if sess, ok := session.FromContext(ctx); ok {
		wb, err := s.waybills.Resolve(ctx, sess.Owner(), waybill)
		if err != nil {
			return nil, err
		}
		if wb.IsPlaceholder() {
			return domain.PendingHistory(waybill, s.now()), nil
		}
	}

	history, err := s.provider.GetTrackingHistory(ctx, waybill)
	if err != nil {
		if errors.Is(err, domain.ErrTrackingNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get tracking from provider: %w", err)
	}
	return history, nil
}
