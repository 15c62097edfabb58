package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"parcel-portal/internal/core/apperror"
	"parcel-portal/internal/core/logger"
	"parcel-portal/internal/core/session"
	"parcel-portal/internal/features/labels/domain"
	"parcel-portal/internal/features/labels/ports"

	"go.uber.org/zap"
)

// LabelServiceImpl implements ports.LabelService.
type LabelServiceImpl struct {
	gateway  ports.LabelGateway
	demo     ports.DemoRenderer
	waybills ports.WaybillResolver
}

// NewLabelService creates a new LabelServiceImpl.
func NewLabelService(gateway ports.LabelGateway, demo ports.DemoRenderer, waybills ports.WaybillResolver) *LabelServiceImpl {
	return &LabelServiceImpl{
		gateway:  gateway,
		demo:     demo,
		waybills: waybills,
	}
}

// Label returns the decoded label. Placeholder waybills never go upstream and
// get a local demo PDF instead.
func (s *LabelServiceImpl) Label(ctx context.Context, waybill, format string) (*domain.Label, error) {
	waybill = strings.TrimSpace(waybill)
	if waybill == "" {
		return nil, apperror.NewValidationError("a waybill is required", apperror.Field("waybill", "required"))
	}

	f, err := domain.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	if sess, ok := session.FromContext(ctx); ok {
		wb, err := s.waybills.Resolve(ctx, sess.Owner(), waybill)
		if err != nil {
			return nil, err
		}
		if wb.IsPlaceholder() {
			data, err := s.demo.Render(waybill)
			if err != nil {
				return nil, err
			}
			logger.Get().Info("Serving demo label for placeholder waybill", zap.String("waybill", waybill))
			return &domain.Label{Waybill: waybill, Format: domain.FormatPDF, Data: data, Demo: true}, nil
		}
	}

	docs, err := s.gateway.Fetch(ctx, waybill, f)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 || strings.TrimSpace(docs[0]) == "" {
		return nil, domain.ErrLabelNotAvailable
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(docs[0]))
	if err != nil {
		return nil, fmt.Errorf("service: failed to decode label: %w", err)
	}
	return &domain.Label{Waybill: waybill, Format: f, Data: data}, nil
}
