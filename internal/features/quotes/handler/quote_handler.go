package handler

import (
	"errors"

	"parcel-portal/internal/core/server"
	"parcel-portal/internal/features/quotes/domain"
	"parcel-portal/internal/features/quotes/ports"

	"github.com/gofiber/fiber/v2"
)

// QuoteHandler handles HTTP requests for shipping estimates.
type QuoteHandler struct {
	service ports.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(service ports.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		service: service,
	}
}

// EstimateRequest represents the request body for an estimate.
type EstimateRequest struct {
	Packages []domain.PackageForm `json:"packages"`
	AddOns   domain.AddOns        `json:"addOns"`
}

// Estimate godoc
// @Summary Estimate shipping cost
// @Description Prices the packages across couriers. Falls back to demo offers when the logistics API gives nothing usable.
// @Tags quotes
// @Accept json
// @Produce json
// @Param request body EstimateRequest true "Packages and add-ons"
// @Success 200 {object} domain.QuoteResult
// @Failure 400 {object} server.ErrorResponse
// @Failure 404 {object} server.ErrorResponse
// @Failure 502 {object} server.ErrorResponse
// @Router /api/quotes [post]
func (h *QuoteHandler) Estimate(c *fiber.Ctx) error {
	var req EstimateRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	result, err := h.service.Estimate(c.UserContext(), req.Packages, req.AddOns)
	if err != nil {
		if errors.Is(err, domain.ErrNoOffers) {
			return server.Fail(c, fiber.StatusNotFound, "no courier could price this shipment")
		}
		return err
	}

	return c.JSON(result)
}
