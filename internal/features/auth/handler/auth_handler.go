package handler

import (
	"errors"

	"parcel-portal/internal/core/logger"
	"parcel-portal/internal/core/logistics"
	"parcel-portal/internal/core/server"
	"parcel-portal/internal/features/auth/domain"
	"parcel-portal/internal/features/auth/ports"
	quotes "parcel-portal/internal/features/quotes/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles HTTP requests for the session gate.
type AuthHandler struct {
	service    ports.AuthService
	middleware *SessionMiddleware
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service ports.AuthService, middleware *SessionMiddleware) *AuthHandler {
	return &AuthHandler{
		service:    service,
		middleware: middleware,
	}
}

// LoginRequest represents the request body for a login.
type LoginRequest struct {
	domain.Credentials
	// Continuation is the token returned by a selection made before login.
	Continuation string `json:"continuation,omitempty"`
}

// MessageResponse is a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// Login godoc
// @Summary Log in
// @Description Authenticates against the logistics API. Returns the pending selection, if a continuation is given.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} domain.LoginResult
// @Failure 400 {object} server.ErrorResponse
// @Failure 401 {object} server.ErrorResponse
// @Failure 502 {object} server.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	result, err := h.service.Login(c.UserContext(), req.Credentials, req.Continuation)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return server.Fail(c, fiber.StatusUnauthorized, "Invalid login or password")
		}
		return err
	}

	if err := h.middleware.SetCookie(c, result.SessionID); err != nil {
		return err
	}
	return c.JSON(result)
}

// Register godoc
// @Summary Register an account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.RegisterForm true "Registration form"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} server.ErrorResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var form domain.RegisterForm
	if err := c.BodyParser(&form); err != nil {
		return server.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.service.Register(c.UserContext(), form); err != nil {
		if apiErr, ok := logistics.AsAPIError(err); ok && !errors.Is(err, logistics.ErrUnauthorized) {
			message := apiErr.Message
			if message == "" {
				message = "Registration failed. Check whether the login is already taken."
			}
			return server.Fail(c, fiber.StatusBadRequest, message)
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(MessageResponse{
		Message: "Account created. Please log in.",
	})
}

// Logout godoc
// @Summary Log out
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.service.Logout(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(MessageResponse{Message: "Logged out"})
}

// Session godoc
// @Summary Current session
// @Tags auth
// @Produce json
// @Success 200 {object} domain.SessionView
// @Router /api/auth/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	view, err := h.service.Current(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// Select godoc
// @Summary Select an offer
// @Description Proceeds for authenticated visitors; otherwise stores the selection and returns a continuation token and a login redirect.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body quotes.Selection true "Offer and packages"
// @Success 200 {object} domain.SelectResult
// @Failure 400 {object} server.ErrorResponse
// @Router /api/selection [post]
func (h *AuthHandler) Select(c *fiber.Ctx) error {
	var selection quotes.Selection
	if err := c.BodyParser(&selection); err != nil {
		return server.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	result, err := h.service.Select(c.UserContext(), selection)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// OnUnauthorized invalidates the session after the API rejected its upstream cookies.
func (h *AuthHandler) OnUnauthorized(c *fiber.Ctx) {
	if err := h.service.Invalidate(c.UserContext()); err != nil {
		logger.Get().Error("Failed to invalidate session", zap.String("ray_id", server.RayID(c)), zap.Error(err))
	}
}
