package service

import (
	"context"
	"fmt"

	"parcel-portal/internal/core/apperror"
	"parcel-portal/internal/core/logger"
	"parcel-portal/internal/core/session"
	"parcel-portal/internal/features/auth/domain"
	"parcel-portal/internal/features/auth/ports"
	quotes "parcel-portal/internal/features/quotes/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoginRedirect is where anonymous visitors are sent after selecting an offer.
const LoginRedirect = "/login"

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	auth       ports.Authenticator
	sessions   ports.SessionStore
	selections ports.SelectionStore
	newID      func() string
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(auth ports.Authenticator, sessions ports.SessionStore, selections ports.SelectionStore) *AuthServiceImpl {
	return &AuthServiceImpl{
		auth:       auth,
		sessions:   sessions,
		selections: selections,
		newID:      uuid.NewString,
	}
}

// Login authenticates upstream and rotates the session id.
// When a continuation token is given, the pending selection is consumed and returned once.
func (s *AuthServiceImpl) Login(ctx context.Context, creds domain.Credentials, continuation string) (*domain.LoginResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	sess, ok := session.FromContext(ctx)
	if !ok {
		return nil, session.ErrNoSession
	}

	cookies, err := s.auth.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("service: login failed: %w", err)
	}

	previousID := sess.ID
	sess.ID = s.newID()
	sess.Authenticate(creds.Login, cookies)

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("service: failed to save session: %w", err)
	}
	if err := s.sessions.Delete(ctx, previousID); err != nil {
		logger.Get().Warn("Failed to delete previous session", zap.String("session_id", previousID), zap.Error(err))
	}

	result := &domain.LoginResult{
		SessionID: sess.ID,
		Login:     sess.Login,
	}

	if continuation != "" {
		selection, err := s.selections.Take(ctx, continuation)
		if err != nil {
			logger.Get().Warn("Discarding unreadable pending selection",
				zap.String("continuation", continuation),
				zap.Error(err),
			)
		}
		result.Resume = selection
	}

	return result, nil
}

// Register validates and normalizes the form, then creates the upstream account.
func (s *AuthServiceImpl) Register(ctx context.Context, form domain.RegisterForm) error {
	if err := form.Validate(); err != nil {
		return err
	}

	if err := s.auth.Register(ctx, domain.NewRegisterRequest(form)); err != nil {
		return fmt.Errorf("service: registration failed: %w", err)
	}
	return nil
}

// Logout drops the authentication state of the current session.
func (s *AuthServiceImpl) Logout(ctx context.Context) error {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return session.ErrNoSession
	}

	sess.Invalidate()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return fmt.Errorf("service: failed to save session: %w", err)
	}
	return nil
}

// Invalidate is called when the API reports the upstream session is gone.
// The local flag never overrides that signal.
func (s *AuthServiceImpl) Invalidate(ctx context.Context) error {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return session.ErrNoSession
	}
	if !sess.Authenticated {
		return nil
	}

	logger.Get().Warn("Upstream session expired, logging out", zap.String("login", sess.Login))
	return s.Logout(ctx)
}

// Select gates the chosen offer on authentication.
// Anonymous visitors get a continuation token; nothing is submitted.
func (s *AuthServiceImpl) Select(ctx context.Context, selection quotes.Selection) (*domain.SelectResult, error) {
	if selection.Offer.PricingID == nil {
		return nil, apperror.NewValidationError("offer has no pricing id",
			apperror.Field("offer.pricingId", "required"))
	}
	if len(selection.Packages) == 0 {
		return nil, apperror.NewValidationError("selection has no packages",
			apperror.Field("packages", "required"))
	}

	sess, ok := session.FromContext(ctx)
	if !ok {
		return nil, session.ErrNoSession
	}

	if sess.Authenticated {
		return &domain.SelectResult{
			Action:    domain.ActionProceed,
			Selection: &selection,
		}, nil
	}

	token := s.newID()
	if err := s.selections.Put(ctx, token, selection); err != nil {
		return nil, fmt.Errorf("service: failed to store pending selection: %w", err)
	}

	return &domain.SelectResult{
		Action:       domain.ActionLogin,
		Continuation: token,
		Redirect:     LoginRedirect,
	}, nil
}

// Current returns the public view of the session.
func (s *AuthServiceImpl) Current(ctx context.Context) (*domain.SessionView, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return nil, session.ErrNoSession
	}
	return &domain.SessionView{
		Authenticated: sess.Authenticated,
		Login:         sess.Login,
	}, nil
}
