package adapters

import (
	"context"
	"fmt"
	"net/http"

	"parcel-portal/internal/core/logistics"
	"parcel-portal/internal/features/auth/domain"
)

// LogisticsAuthenticator implements ports.Authenticator against the logistics API.
type LogisticsAuthenticator struct {
	client *logistics.Client
}

// NewLogisticsAuthenticator creates a new LogisticsAuthenticator.
func NewLogisticsAuthenticator(client *logistics.Client) *LogisticsAuthenticator {
	return &LogisticsAuthenticator{
		client: client,
	}
}

// Login posts the credentials. HTTP 200 means the API has set its session cookie.
func (a *LogisticsAuthenticator) Login(ctx context.Context, creds domain.Credentials) ([]logistics.Cookie, error) {
	// A fresh login never replays the cookies of a previous upstream session.
	ctx = logistics.WithCookies(ctx, nil)

	resp, err := a.client.Do(ctx, logistics.Request{
		Method: http.MethodPost,
		Path:   "/login",
		Body:   creds,
	}, nil)
	if err != nil {
		if apiErr, ok := logistics.AsAPIError(err); ok {
			if apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden {
				return nil, domain.ErrInvalidCredentials
			}
		}
		return nil, fmt.Errorf("login request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("login request failed: unexpected status %d", resp.StatusCode)
	}
	return resp.Cookies, nil
}

// Register creates the upstream account.
func (a *LogisticsAuthenticator) Register(ctx context.Context, req domain.RegisterRequest) error {
	if _, err := a.client.Do(ctx, logistics.Request{
		Method: http.MethodPost,
		Path:   "/register",
		Body:   req,
	}, nil); err != nil {
		return fmt.Errorf("register request failed: %w", err)
	}
	return nil
}
