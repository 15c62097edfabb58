package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"parcel-portal/internal/core/logistics"
)

// ErrNoSession is returned when the request context carries no session.
var ErrNoSession = errors.New("no session in context")

// Session is the per-visitor authentication state.
// It is loaded by middleware and threaded through the request context.
type Session struct {
	// ID identifies the session in the store and in the signed cookie.
	ID string `json:"id"`
	// Authenticated is true after a successful upstream login.
	Authenticated bool `json:"authenticated"`
	// Login is the account name used at login time.
	Login string `json:"login,omitempty"`
	// UpstreamCookies are replayed on every logistics API call made for this session.
	UpstreamCookies []logistics.Cookie `json:"upstream_cookies,omitempty"`
	// CreatedAt is when the session was first issued.
	CreatedAt time.Time `json:"created_at"`
}

// New creates an anonymous session.
func New(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		CreatedAt: now,
	}
}

// Authenticate marks the session as logged in with the given upstream cookies.
func (s *Session) Authenticate(login string, cookies []logistics.Cookie) {
	s.Authenticated = true
	s.Login = login
	s.UpstreamCookies = cookies
}

// Invalidate drops the authentication state, keeping the session identity.
func (s *Session) Invalidate() {
	s.Authenticated = false
	s.Login = ""
	s.UpstreamCookies = nil
}

// Owner scopes workflow state (waybill kinds, pickup state) to the account, so it
// survives the id rotation at login. Anonymous sessions fall back to their id.
func (s *Session) Owner() string {
	if login := strings.ToLower(strings.TrimSpace(s.Login)); login != "" {
		return "account:" + login
	}
	return "session:" + s.ID
}

type sessionKey struct{}

// WithSession returns a context carrying the session and its upstream cookies.
func WithSession(ctx context.Context, s *Session) context.Context {
	ctx = context.WithValue(ctx, sessionKey{}, s)
	return logistics.WithCookies(ctx, s.UpstreamCookies)
}

// FromContext returns the session carried by the context.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}
