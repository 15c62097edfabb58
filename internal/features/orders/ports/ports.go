package ports

import (
	"context"

	"parcel-portal/internal/core/waybill"
	"parcel-portal/internal/features/orders/domain"
)

// OrderService defines the primary port for assembling and submitting orders.
type OrderService interface {
	// DefaultSender returns the stored sender profile, or an empty one.
	DefaultSender(ctx context.Context) (*domain.AddressProfile, error)
	Submit(ctx context.Context, draft domain.Draft) (*domain.Confirmation, error)
	AddressBook(ctx context.Context, query string) ([]domain.AddressBookEntry, error)
}

// OrderGateway defines the secondary port to the logistics API.
// This is a Secondary Port (Driven Port).
type OrderGateway interface {
	DefaultSender(ctx context.Context) (*domain.AddressProfile, error)
	Send(ctx context.Context, shipment domain.Shipment) (*domain.SendResult, error)
	AddressBook(ctx context.Context) ([]domain.AddressBookEntry, error)
}

// WaybillRecorder remembers the kind of waybills issued to an account.
type WaybillRecorder interface {
	Record(ctx context.Context, owner string, w waybill.Waybill) error
}

// SubmissionGuard prevents concurrent submissions for the same key.
type SubmissionGuard interface {
	Acquire(ctx context.Context, key string) (func(), error)
}
