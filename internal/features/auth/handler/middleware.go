package handler

import (
	"errors"
	"time"

	"parcel-portal/internal/core/cache"
	"parcel-portal/internal/core/logger"
	"parcel-portal/internal/core/logistics"
	"parcel-portal/internal/core/session"
	"parcel-portal/internal/features/auth/ports"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionMiddleware loads the visitor session from the signed cookie, or issues an anonymous one,
// and threads it through the request context.
type SessionMiddleware struct {
	store      ports.SessionStore
	codec      ports.TokenCodec
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewSessionMiddleware creates a new SessionMiddleware.
func NewSessionMiddleware(store ports.SessionStore, codec ports.TokenCodec, cookieName string, ttl time.Duration, secure bool) *SessionMiddleware {
	return &SessionMiddleware{
		store:      store,
		codec:      codec,
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
	}
}

// Handle is the fiber middleware function.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	ctx := c.UserContext()

	sess := m.load(c)
	if sess == nil {
		sess = session.New(uuid.NewString(), time.Now().UTC())
		if err := m.store.Save(ctx, sess); err != nil {
			return err
		}
		if err := m.SetCookie(c, sess.ID); err != nil {
			return err
		}
	}

	c.SetUserContext(session.WithSession(ctx, sess))
	return c.Next()
}

func (m *SessionMiddleware) load(c *fiber.Ctx) *session.Session {
	token := c.Cookies(m.cookieName)
	if token == "" {
		return nil
	}

	sessionID, err := m.codec.Parse(token)
	if err != nil {
		logger.Get().Debug("Ignoring invalid session cookie", zap.Error(err))
		return nil
	}

	sess, err := m.store.Load(c.UserContext(), sessionID)
	if err != nil {
		if !errors.Is(err, cache.ErrKeyNotFound) {
			logger.Get().Warn("Failed to load session", zap.String("session_id", sessionID), zap.Error(err))
		}
		return nil
	}
	return sess
}

// SetCookie issues the signed session cookie for the session id.
func (m *SessionMiddleware) SetCookie(c *fiber.Ctx, sessionID string) error {
	token, err := m.codec.Issue(sessionID)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(m.ttl),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// RequireAuth rejects anonymous sessions. The global error handler turns the
// error into a 401 with a login redirect and invalidates the session.
func RequireAuth(c *fiber.Ctx) error {
	sess, ok := session.FromContext(c.UserContext())
	if !ok || !sess.Authenticated {
		return logistics.ErrUnauthorized
	}
	return c.Next()
}
