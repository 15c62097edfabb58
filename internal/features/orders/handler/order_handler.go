package handler

import (
	"parcel-portal/internal/core/server"
	"parcel-portal/internal/features/orders/domain"
	"parcel-portal/internal/features/orders/ports"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for order assembly.
type OrderHandler struct {
	service ports.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// DefaultSender godoc
// @Summary Default sender profile
// @Description Prefills the sender form. Returns an empty profile when the API has none.
// @Tags orders
// @Produce json
// @Success 200 {object} domain.AddressProfile
// @Failure 401 {object} server.ErrorResponse
// @Router /api/orders/sender [get]
func (h *OrderHandler) DefaultSender(c *fiber.Ctx) error {
	profile, err := h.service.DefaultSender(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// Submit godoc
// @Summary Submit an order
// @Description Sends the selected offer with sender and receiver. Returns the waybill, which may be a placeholder.
// @Tags orders
// @Accept json
// @Produce json
// @Param request body domain.Draft true "Order draft"
// @Success 201 {object} domain.Confirmation
// @Failure 400 {object} server.ErrorResponse
// @Failure 401 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Failure 502 {object} server.ErrorResponse
// @Router /api/orders [post]
func (h *OrderHandler) Submit(c *fiber.Ctx) error {
	var draft domain.Draft
	if err := c.BodyParser(&draft); err != nil {
		return server.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	confirmation, err := h.service.Submit(c.UserContext(), draft)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(confirmation)
}

// AddressBook godoc
// @Summary Search saved addresses
// @Tags orders
// @Produce json
// @Param q query string false "Case-insensitive search over name, company, city and street"
// @Success 200 {array} domain.AddressBookEntry
// @Failure 401 {object} server.ErrorResponse
// @Router /api/address-book [get]
func (h *OrderHandler) AddressBook(c *fiber.Ctx) error {
	entries, err := h.service.AddressBook(c.UserContext(), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(entries)
}
