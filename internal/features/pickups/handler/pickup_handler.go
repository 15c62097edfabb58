package handler

import (
	"errors"

	"parcel-portal/internal/core/server"
	"parcel-portal/internal/features/pickups/domain"
	"parcel-portal/internal/features/pickups/ports"

	"github.com/gofiber/fiber/v2"
)

// PickupHandler handles HTTP requests for pickup scheduling.
type PickupHandler struct {
	service ports.PickupService
}

// NewPickupHandler creates a new PickupHandler.
func NewPickupHandler(service ports.PickupService) *PickupHandler {
	return &PickupHandler{
		service: service,
	}
}

// Schedule godoc
// @Summary Order a courier pickup
// @Description Validates the window locally, then requests the pickup. Placeholder waybills may be confirmed by simulation.
// @Tags pickups
// @Accept json
// @Produce json
// @Param request body domain.WindowForm true "Pickup window"
// @Success 200 {object} domain.PickupState
// @Failure 400 {object} server.ErrorResponse
// @Failure 401 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Failure 502 {object} server.ErrorResponse
// @Router /api/pickups [post]
func (h *PickupHandler) Schedule(c *fiber.Ctx) error {
	var form domain.WindowForm
	if err := c.BodyParser(&form); err != nil {
		return server.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	state, err := h.service.Schedule(c.UserContext(), form)
	if err != nil {
		var rejected *domain.RejectedError
		switch {
		case errors.Is(err, domain.ErrPickupAlreadyConfirmed):
			return server.Fail(c, fiber.StatusConflict, "pickup already confirmed for this waybill")
		case errors.As(err, &rejected):
			return server.Fail(c, fiber.StatusBadGateway, rejected.Message)
		}
		return err
	}
	return c.JSON(state)
}

// Status godoc
// @Summary Pickup state of a waybill
// @Tags pickups
// @Produce json
// @Param waybill path string true "Waybill"
// @Success 200 {object} domain.PickupState
// @Router /api/pickups/{waybill} [get]
func (h *PickupHandler) Status(c *fiber.Ctx) error {
	state, err := h.service.Status(c.UserContext(), c.Params("waybill"))
	if err != nil {
		return err
	}
	return c.JSON(state)
}

// Availability godoc
// @Summary Pickup availability
// @Description Courier working windows per day, ordered by date, with the earliest valid window end.
// @Tags pickups
// @Produce json
// @Param courier query string true "Courier"
// @Param zipCode query string true "Sender zip code"
// @Success 200 {array} domain.DayAvailability
// @Failure 400 {object} server.ErrorResponse
// @Router /api/pickups/availability [get]
func (h *PickupHandler) Availability(c *fiber.Ctx) error {
	days, err := h.service.Availability(c.UserContext(), c.Query("courier"), c.Query("zipCode"))
	if err != nil {
		return err
	}
	return c.JSON(days)
}
