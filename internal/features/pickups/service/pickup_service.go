package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"parcel-portal/internal/core/apperror"
	"parcel-portal/internal/core/events"
	"parcel-portal/internal/core/logger"
	"parcel-portal/internal/core/logistics"
	"parcel-portal/internal/core/session"
	"parcel-portal/internal/features/pickups/domain"
	"parcel-portal/internal/features/pickups/ports"

	"go.uber.org/zap"
)

// PickupServiceImpl implements ports.PickupService.
type PickupServiceImpl struct {
	gateway   ports.PickupGateway
	store     ports.StateStore
	waybills  ports.WaybillResolver
	guard     ports.SubmissionGuard
	publisher events.Publisher
	// simulate confirms rejected pickups of placeholder waybills locally.
	simulate bool
	now      func() time.Time
}

// NewPickupService creates a new PickupServiceImpl.
func NewPickupService(
	gateway ports.PickupGateway,
	store ports.StateStore,
	waybills ports.WaybillResolver,
	guard ports.SubmissionGuard,
	publisher events.Publisher,
	simulate bool,
) *PickupServiceImpl {
	return &PickupServiceImpl{
		gateway:   gateway,
		store:     store,
		waybills:  waybills,
		guard:     guard,
		publisher: publisher,
		simulate:  simulate,
		now:       time.Now,
	}
}

// Schedule requests a pickup for the window and drives the state machine.
func (s *PickupServiceImpl) Schedule(ctx context.Context, form domain.WindowForm) (*domain.PickupState, error) {
	window, err := form.Parse()
	if err != nil {
		return nil, err
	}

	sess, ok := session.FromContext(ctx)
	if !ok {
		return nil, session.ErrNoSession
	}

	owner := sess.Owner()
	state, err := s.store.Load(ctx, owner, window.Waybill)
	if err != nil {
		return nil, err
	}
	if state.Status == domain.StatusSuccess {
		return nil, domain.ErrPickupAlreadyConfirmed
	}

	if err := window.Validate(); err != nil {
		if ve, ok := apperror.AsValidation(err); ok && state.Status != domain.StatusLoading {
			s.fail(ctx, owner, state, ve.Message)
		}
		return nil, err
	}

	release, err := s.guard.Acquire(ctx, fmt.Sprintf("pickup:%s:%s", owner, window.Waybill))
	if err != nil {
		return nil, err
	}
	defer release()

	if state.Status == domain.StatusLoading {
		// The guard is free, so the previous request died mid-flight.
		logger.Get().Warn("Resetting stale pickup state", zap.String("waybill", window.Waybill))
		state.Status = domain.StatusError
	}

	if err := state.MoveTo(domain.StatusLoading, s.now().UTC()); err != nil {
		return nil, err
	}
	state.From, state.To = window.FromParam(), window.ToParam()
	if err := s.store.Save(ctx, owner, state); err != nil {
		return nil, err
	}

	conf, err := s.gateway.Order(ctx, window)
	if err != nil {
		return s.handleFailure(ctx, sess, state, err)
	}

	state.Confirmation = conf
	return s.succeed(ctx, sess, state)
}

func (s *PickupServiceImpl) handleFailure(ctx context.Context, sess *session.Session, state *domain.PickupState, cause error) (*domain.PickupState, error) {
	if errors.Is(cause, logistics.ErrUnauthorized) {
		s.fail(ctx, sess.Owner(), state, "session expired")
		return nil, cause
	}

	if s.simulate {
		wb, err := s.waybills.Resolve(ctx, sess.Owner(), state.Waybill)
		if err != nil {
			logger.Get().Error("Failed to resolve waybill", zap.String("waybill", state.Waybill), zap.Error(err))
		} else if wb.IsPlaceholder() {
			logger.Get().Warn("Pickup rejected for placeholder waybill, simulating success",
				zap.String("waybill", state.Waybill),
				zap.Error(cause),
			)
			state.Simulated = true
			return s.succeed(ctx, sess, state)
		}
	}

	message := domain.DefaultFailureMessage
	if apiErr, ok := logistics.AsAPIError(cause); ok && apiErr.Message != "" {
		message = apiErr.Message
	}
	s.fail(ctx, sess.Owner(), state, message)
	return nil, &domain.RejectedError{Message: message, Err: cause}
}

func (s *PickupServiceImpl) succeed(ctx context.Context, sess *session.Session, state *domain.PickupState) (*domain.PickupState, error) {
	if err := state.MoveTo(domain.StatusSuccess, s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, sess.Owner(), state); err != nil {
		return nil, err
	}

	events.PublishQuietly(ctx, s.publisher, events.Event{
		Type:      events.TypePickupOrdered,
		Waybill:   state.Waybill,
		SessionID: sess.ID,
		Payload:   state,
		EventTime: s.now().UTC(),
	})

	logger.Get().Info("Pickup confirmed",
		zap.String("waybill", state.Waybill),
		zap.Bool("simulated", state.Simulated),
	)
	return state, nil
}

// fail records the error state. A failed save is logged; the caller reports the original error.
func (s *PickupServiceImpl) fail(ctx context.Context, owner string, state *domain.PickupState, message string) {
	if err := state.MoveTo(domain.StatusError, s.now().UTC()); err != nil {
		return
	}
	state.Error = message
	if err := s.store.Save(context.WithoutCancel(ctx), owner, state); err != nil {
		logger.Get().Error("Failed to save pickup state", zap.String("waybill", state.Waybill), zap.Error(err))
	}
}

// Status returns the pickup state of the waybill for the current account.
func (s *PickupServiceImpl) Status(ctx context.Context, waybill string) (*domain.PickupState, error) {
	waybill = strings.TrimSpace(waybill)
	if waybill == "" {
		return nil, apperror.NewValidationError("a waybill is required", apperror.Field("waybill", "required"))
	}

	sess, ok := session.FromContext(ctx)
	if !ok {
		return nil, session.ErrNoSession
	}
	return s.store.Load(ctx, sess.Owner(), waybill)
}

// Availability returns the bookable pickup days, ordered by date.
func (s *PickupServiceImpl) Availability(ctx context.Context, courier, zipCode string) ([]domain.DayAvailability, error) {
	courier, zipCode = strings.TrimSpace(courier), strings.TrimSpace(zipCode)

	var details []apperror.ValidationDetail
	if courier == "" {
		details = append(details, apperror.Field("courier", "required"))
	}
	if zipCode == "" {
		details = append(details, apperror.Field("zipCode", "required"))
	}
	if len(details) > 0 {
		return nil, apperror.NewValidationError("courier and zip code are required", details...)
	}

	slots, err := s.gateway.Availability(ctx, courier, strings.ReplaceAll(zipCode, "-", ""))
	if err != nil {
		return nil, fmt.Errorf("service: failed to load availability: %w", err)
	}
	return domain.SortAvailability(slots), nil
}
