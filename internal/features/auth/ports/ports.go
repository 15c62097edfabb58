package ports

import (
	"context"

	"parcel-portal/internal/core/logistics"
	"parcel-portal/internal/core/session"
	"parcel-portal/internal/features/auth/domain"
	quotes "parcel-portal/internal/features/quotes/domain"
)

// AuthService defines the primary port of the session gate.
// Every method works on the session carried by the context.
type AuthService interface {
	Login(ctx context.Context, creds domain.Credentials, continuation string) (*domain.LoginResult, error)
	Register(ctx context.Context, form domain.RegisterForm) error
	Logout(ctx context.Context) error
	Select(ctx context.Context, selection quotes.Selection) (*domain.SelectResult, error)
	Current(ctx context.Context) (*domain.SessionView, error)
	Invalidate(ctx context.Context) error
}

// Authenticator defines the secondary port for upstream account operations.
type Authenticator interface {
	// Login returns the upstream session cookies, or domain.ErrInvalidCredentials.
	Login(ctx context.Context, creds domain.Credentials) ([]logistics.Cookie, error)
	Register(ctx context.Context, req domain.RegisterRequest) error
}

// SessionStore defines the secondary port for session persistence.
type SessionStore interface {
	Load(ctx context.Context, id string) (*session.Session, error)
	Save(ctx context.Context, s *session.Session) error
	Delete(ctx context.Context, id string) error
}

// SelectionStore keeps offer selections waiting for login.
type SelectionStore interface {
	Put(ctx context.Context, token string, selection quotes.Selection) error
	// Take returns and removes the selection. A token can be taken at most once.
	Take(ctx context.Context, token string) (*quotes.Selection, error)
}

// TokenCodec signs and verifies the session cookie.
type TokenCodec interface {
	Issue(sessionID string) (string, error)
	Parse(token string) (string, error)
}
