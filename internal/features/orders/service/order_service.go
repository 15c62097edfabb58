package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parcel-portal/internal/core/events"
	"parcel-portal/internal/core/logger"
	"parcel-portal/internal/core/logistics"
	"parcel-portal/internal/core/session"
	"parcel-portal/internal/core/waybill"
	"parcel-portal/internal/features/orders/domain"
	"parcel-portal/internal/features/orders/ports"

	"go.uber.org/zap"
)

// OrderServiceImpl implements ports.OrderService.
type OrderServiceImpl struct {
	gateway       ports.OrderGateway
	registry      ports.WaybillRecorder
	guard         ports.SubmissionGuard
	publisher     events.Publisher
	allowFallback bool
	now           func() time.Time
}

// NewOrderService creates a new OrderServiceImpl.
func NewOrderService(
	gateway ports.OrderGateway,
	registry ports.WaybillRecorder,
	guard ports.SubmissionGuard,
	publisher events.Publisher,
	allowFallback bool,
) *OrderServiceImpl {
	return &OrderServiceImpl{
		gateway:       gateway,
		registry:      registry,
		guard:         guard,
		publisher:     publisher,
		allowFallback: allowFallback,
		now:           time.Now,
	}
}

// DefaultSender prefills the sender form. Any failure other than an expired
// session yields an empty profile so the form stays usable.
func (s *OrderServiceImpl) DefaultSender(ctx context.Context) (*domain.AddressProfile, error) {
	profile, err := s.gateway.DefaultSender(ctx)
	if err != nil {
		if errors.Is(err, logistics.ErrUnauthorized) {
			return nil, err
		}
		logger.Get().Warn("Default sender unavailable, using empty profile", zap.Error(err))
		empty := domain.EmptyProfile()
		return &empty, nil
	}
	return profile, nil
}

// Submit validates and sends the draft. At most one submission per session is in flight.
func (s *OrderServiceImpl) Submit(ctx context.Context, draft domain.Draft) (*domain.Confirmation, error) {
	if err := draft.Validate(s.allowFallback); err != nil {
		return nil, err
	}

	sess, ok := session.FromContext(ctx)
	if !ok {
		return nil, session.ErrNoSession
	}

	release, err := s.guard.Acquire(ctx, "order:"+sess.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	shipment := domain.NewShipment(draft)
	result, err := s.gateway.Send(ctx, shipment)
	if err != nil {
		return nil, fmt.Errorf("service: failed to send order: %w", err)
	}

	wb := waybill.Real(result.Waybill)
	if result.Waybill == "" {
		wb = waybill.NewPlaceholder()
		logger.Get().Warn("Order accepted without waybill, issued placeholder",
			zap.String("order_id", result.OrderID),
			zap.String("waybill", wb.ID),
		)
	}

	// Unrecorded ids resolve as real, so only a lost placeholder breaks later stages.
	if err := s.registry.Record(context.WithoutCancel(ctx), sess.Owner(), wb); err != nil {
		if wb.IsPlaceholder() {
			logger.Get().Error("Failed to record placeholder waybill",
				zap.String("order_id", result.OrderID),
				zap.String("waybill", wb.ID),
				zap.Error(err),
			)
			return nil, fmt.Errorf("service: order %s accepted but placeholder waybill %s was not recorded: %w", result.OrderID, wb.ID, err)
		}
		logger.Get().Warn("Failed to record waybill", zap.String("waybill", wb.ID), zap.Error(err))
	}

	confirmation := &domain.Confirmation{
		OrderID:     result.OrderID,
		Waybill:     wb,
		Status:      result.Status,
		TrackingURL: result.TrackingURL,
		Courier:     shipment.Courier,
	}

	events.PublishQuietly(ctx, s.publisher, events.Event{
		Type:      events.TypeOrderCreated,
		Waybill:   wb.ID,
		SessionID: sess.ID,
		Payload:   confirmation,
		EventTime: s.now().UTC(),
	})

	logger.Get().Info("Order submitted",
		zap.String("order_id", result.OrderID),
		zap.String("waybill", wb.ID),
		zap.String("courier", shipment.Courier),
	)
	return confirmation, nil
}

// AddressBook returns the saved addresses matching the query.
func (s *OrderServiceImpl) AddressBook(ctx context.Context, query string) ([]domain.AddressBookEntry, error) {
	entries, err := s.gateway.AddressBook(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load address book: %w", err)
	}
	return domain.FilterAddressBook(entries, query), nil
}
