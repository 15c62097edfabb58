package server

import (
	"errors"
	"fmt"

	"parcel-portal/internal/core/apperror"
	"parcel-portal/internal/core/config"
	"parcel-portal/internal/core/httpclient"
	"parcel-portal/internal/core/inflight"
	"parcel-portal/internal/core/logger"
	"parcel-portal/internal/core/logistics"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"

	_ "parcel-portal/docs/swagger"
)

// LoginRedirect is where the browser is sent when the upstream session is gone.
const LoginRedirect = "/login"

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
	// Details lists invalid fields for validation errors.
	Details []apperror.ValidationDetail `json:"details,omitempty"`
	// Redirect tells the browser where to go next, e.g. the login page.
	Redirect string `json:"redirect,omitempty"`
}

// UnauthorizedHook runs when an upstream call reports the session is no longer valid.
type UnauthorizedHook func(c *fiber.Ctx)

// Server holds the Fiber application and configuration.
type Server struct {
	// App is the main Fiber application instance.
	App *fiber.App
	// cfg holds the application configuration.
	cfg *config.AppConfig
}

// New creates a new Server instance with configured middleware.
// onUnauthorized may be nil.
func New(cfg *config.AppConfig, onUnauthorized UnauthorizedHook) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               logger.ServiceName,
		ErrorHandler:          ErrorHandler(onUnauthorized),
	})

	app.Use(requestid.New(requestid.Config{
		Header: httpclient.RayIDHeader,
	}))

	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logger.Get(),
	}))

	app.Use(func(c *fiber.Ctx) error {
		c.SetUserContext(httpclient.WithRayID(c.UserContext(), RayID(c)))
		return c.Next()
	})

	app.Get("/swagger/*", swagger.HandlerDefault)

	return &Server{
		App: app,
		cfg: cfg,
	}
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.ServerPort)
	logger.Get().Info("Starting server", zap.String("address", addr))
	return s.App.Listen(addr)
}

// RayID returns the request identifier set by the requestid middleware.
func RayID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}

// Fail writes an ErrorResponse with the given status.
func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{
		Message: message,
		RayID:   RayID(c),
	})
}

// ErrorHandler maps errors that handlers return (instead of writing a response) to an ErrorResponse.
// An upstream 401 invalidates the local session and redirects the browser to the login page.
func ErrorHandler(onUnauthorized UnauthorizedHook) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		rayID := RayID(c)

		if errors.Is(err, logistics.ErrUnauthorized) {
			if onUnauthorized != nil {
				onUnauthorized(c)
			}
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Message:  "session expired, please log in again",
				RayID:    rayID,
				Redirect: LoginRedirect,
			})
		}

		if ve, ok := apperror.AsValidation(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Message: ve.Message,
				RayID:   rayID,
				Details: ve.Details,
			})
		}

		if errors.Is(err, inflight.ErrSubmissionInProgress) {
			return Fail(c, fiber.StatusConflict, err.Error())
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return Fail(c, fe.Code, fe.Message)
		}

		if apiErr, ok := logistics.AsAPIError(err); ok {
			logger.Get().Warn("Upstream request rejected",
				zap.String("ray_id", rayID),
				zap.Int("status_code", apiErr.StatusCode),
				zap.Error(err),
			)
			message := apiErr.Message
			if message == "" {
				message = "logistics service rejected the request"
			}
			return Fail(c, fiber.StatusBadGateway, message)
		}

		if errors.Is(err, logistics.ErrUnavailable) {
			logger.Get().Error("Logistics API unreachable", zap.String("ray_id", rayID), zap.Error(err))
			return Fail(c, fiber.StatusBadGateway, "logistics service unavailable")
		}

		logger.Get().Error("Unhandled request error",
			zap.String("ray_id", rayID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return Fail(c, fiber.StatusInternalServerError, "Internal server error")
	}
}
