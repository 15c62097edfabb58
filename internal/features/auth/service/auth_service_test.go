package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"parcel-portal/internal/core/apperror"
	"parcel-portal/internal/core/cache"
	"parcel-portal/internal/core/logger"
	"parcel-portal/internal/core/logistics"
	"parcel-portal/internal/core/session"
	"parcel-portal/internal/features/auth/adapters"
	"parcel-portal/internal/features/auth/domain"
	quotes "parcel-portal/internal/features/quotes/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// MockAuthenticator is a mock implementation of ports.Authenticator.
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, creds domain.Credentials) ([]logistics.Cookie, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]logistics.Cookie), args.Error(1)
}

func (m *MockAuthenticator) Register(ctx context.Context, req domain.RegisterRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

type fixture struct {
	svc      *AuthServiceImpl
	auth     *MockAuthenticator
	sessions *adapters.RedisSessionStore
	mr       *miniredis.Miniredis
}

func setup(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	auth := new(MockAuthenticator)
	sessions := adapters.NewRedisSessionStore(c, time.Hour)
	selections := adapters.NewRedisSelectionStore(c, 30*time.Minute)

	svc := NewAuthService(auth, sessions, selections)
	ids := 0
	svc.newID = func() string {
		ids++
		return []string{"id-1", "id-2", "id-3", "id-4"}[ids-1]
	}

	return &fixture{svc: svc, auth: auth, sessions: sessions, mr: mr}
}

func anonymousContext(t *testing.T, f *fixture, id string) (context.Context, *session.Session) {
	t.Helper()
	sess := session.New(id, time.Now().UTC())
	require.NoError(t, f.sessions.Save(context.Background(), sess))
	return session.WithSession(context.Background(), sess), sess
}

func testSelection() quotes.Selection {
	price := 16.99
	pricingID := int64(42)
	return quotes.Selection{
		Offer:    quotes.CourierOffer{Courier: "DPD", Price: &price, PricingID: &pricingID, Currency: "PLN"},
		Packages: []quotes.PackageSpec{{ID: 0, Width: 10, Height: 10, Length: 10, Weight: 1, Service: "STANDARD"}},
	}
}

func TestAuthService_Login(t *testing.T) {
	f := setup(t)
	ctx, sess := anonymousContext(t, f, "anon-1")
	cookies := []logistics.Cookie{{Name: "JSESSIONID", Value: "up-1"}}
	f.auth.On("Login", mock.Anything, domain.Credentials{Login: "jan", Password: "secret"}).Return(cookies, nil).Once()

	result, err := f.svc.Login(ctx, domain.Credentials{Login: "jan", Password: "secret"}, "")

	require.NoError(t, err)
	assert.Equal(t, "id-1", result.SessionID)
	assert.Equal(t, "jan", result.Login)
	assert.Nil(t, result.Resume)
	assert.True(t, sess.Authenticated)
	assert.Equal(t, cookies, sess.UpstreamCookies)

	// The session id is rotated.
	assert.False(t, f.mr.Exists("session:anon-1"))
	stored, err := f.sessions.Load(context.Background(), "id-1")
	require.NoError(t, err)
	assert.True(t, stored.Authenticated)
}

func TestAuthService_Login_Validation(t *testing.T) {
	f := setup(t)
	ctx, _ := anonymousContext(t, f, "anon-1")

	_, err := f.svc.Login(ctx, domain.Credentials{Login: "jan"}, "")

	_, ok := apperror.AsValidation(err)
	assert.True(t, ok)
	f.auth.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	f := setup(t)
	ctx, sess := anonymousContext(t, f, "anon-1")
	f.auth.On("Login", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidCredentials).Once()

	_, err := f.svc.Login(ctx, domain.Credentials{Login: "jan", Password: "bad"}, "")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.False(t, sess.Authenticated)
	assert.Equal(t, "anon-1", sess.ID)
}

func TestAuthService_Login_NoSession(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Login(context.Background(), domain.Credentials{Login: "jan", Password: "secret"}, "")
	assert.ErrorIs(t, err, session.ErrNoSession)
}

// TestAuthService_PendingSelection covers the anonymous select, login and resume flow.
func TestAuthService_PendingSelection(t *testing.T) {
	f := setup(t)
	ctx, _ := anonymousContext(t, f, "anon-1")

	selectResult, err := f.svc.Select(ctx, testSelection())
	require.NoError(t, err)
	assert.Equal(t, domain.ActionLogin, selectResult.Action)
	assert.Equal(t, LoginRedirect, selectResult.Redirect)
	assert.Nil(t, selectResult.Selection)
	require.NotEmpty(t, selectResult.Continuation)
	assert.True(t, f.mr.Exists("pending:"+selectResult.Continuation))

	f.auth.On("Login", mock.Anything, mock.Anything).Return([]logistics.Cookie{}, nil)

	loginResult, err := f.svc.Login(ctx, domain.Credentials{Login: "jan", Password: "secret"}, selectResult.Continuation)
	require.NoError(t, err)
	require.NotNil(t, loginResult.Resume)
	assert.Equal(t, "DPD", loginResult.Resume.Offer.Courier)
	assert.False(t, f.mr.Exists("pending:"+selectResult.Continuation))

	// A second login with the same continuation resumes nothing.
	again, err := f.svc.Login(ctx, domain.Credentials{Login: "jan", Password: "secret"}, selectResult.Continuation)
	require.NoError(t, err)
	assert.Nil(t, again.Resume)
}

func TestAuthService_Login_MalformedPending(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	restore := logger.Replace(zap.New(core))
	defer restore()

	f := setup(t)
	ctx, _ := anonymousContext(t, f, "anon-1")
	require.NoError(t, f.mr.Set("pending:tok-bad", "{not json"))
	f.auth.On("Login", mock.Anything, mock.Anything).Return([]logistics.Cookie{}, nil).Once()

	result, err := f.svc.Login(ctx, domain.Credentials{Login: "jan", Password: "secret"}, "tok-bad")

	require.NoError(t, err)
	assert.Nil(t, result.Resume)
	assert.Equal(t, 1, logs.FilterMessage("Discarding unreadable pending selection").Len())
	assert.False(t, f.mr.Exists("pending:tok-bad"))
}

func TestAuthService_Select_Authenticated(t *testing.T) {
	f := setup(t)
	ctx, sess := anonymousContext(t, f, "sid-1")
	sess.Authenticate("jan", nil)

	result, err := f.svc.Select(ctx, testSelection())

	require.NoError(t, err)
	assert.Equal(t, domain.ActionProceed, result.Action)
	require.NotNil(t, result.Selection)
	assert.Equal(t, "DPD", result.Selection.Offer.Courier)
	assert.Empty(t, result.Continuation)
	assert.Equal(t, []string{"session:sid-1"}, f.mr.Keys())
}

func TestAuthService_Select_Validation(t *testing.T) {
	f := setup(t)
	ctx, _ := anonymousContext(t, f, "sid-1")

	noPricing := testSelection()
	noPricing.Offer.PricingID = nil
	_, err := f.svc.Select(ctx, noPricing)
	_, ok := apperror.AsValidation(err)
	assert.True(t, ok)

	noPackages := testSelection()
	noPackages.Packages = nil
	_, err = f.svc.Select(ctx, noPackages)
	_, ok = apperror.AsValidation(err)
	assert.True(t, ok)
}

func TestAuthService_Register(t *testing.T) {
	f := setup(t)
	form := domain.RegisterForm{
		Login: "jan", Email: "jan@example.com", Password: "secret", Name: "Jan", Surname: "Kowalski",
		Phone: "500600700", Street: "Prosta", HouseNr: "5", ZipCode: "00-950", CityName: "Warszawa",
	}

	f.auth.On("Register", mock.Anything, mock.MatchedBy(func(req domain.RegisterRequest) bool {
		return req.City.ZipCode == "00950" && req.PlaceNr == "1" && req.City.Country == "Polska"
	})).Return(nil).Once()
	require.NoError(t, f.svc.Register(context.Background(), form))

	upstreamErr := errors.New("upstream failure")
	f.auth.On("Register", mock.Anything, mock.Anything).Return(upstreamErr).Once()
	assert.ErrorIs(t, f.svc.Register(context.Background(), form), upstreamErr)

	form.Email = ""
	_, ok := apperror.AsValidation(f.svc.Register(context.Background(), form))
	assert.True(t, ok)
	f.auth.AssertNumberOfCalls(t, "Register", 2)
}

func TestAuthService_LogoutAndInvalidate(t *testing.T) {
	f := setup(t)
	ctx, sess := anonymousContext(t, f, "sid-1")
	sess.Authenticate("jan", []logistics.Cookie{{Name: "JSESSIONID", Value: "x"}})

	view, err := f.svc.Current(ctx)
	require.NoError(t, err)
	assert.True(t, view.Authenticated)

	require.NoError(t, f.svc.Invalidate(ctx))
	assert.False(t, sess.Authenticated)
	assert.Nil(t, sess.UpstreamCookies)

	stored, err := f.sessions.Load(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.False(t, stored.Authenticated)

	// Invalidating an anonymous session is a no-op.
	require.NoError(t, f.svc.Invalidate(ctx))

	sess.Authenticate("jan", nil)
	require.NoError(t, f.svc.Logout(ctx))
	view, err = f.svc.Current(ctx)
	require.NoError(t, err)
	assert.False(t, view.Authenticated)
	assert.Empty(t, view.Login)
}
