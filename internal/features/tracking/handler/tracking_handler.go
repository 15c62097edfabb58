package handler

import (
	"errors"

	"parcel-portal/internal/core/server"
	"parcel-portal/internal/features/tracking/domain"
	"parcel-portal/internal/features/tracking/ports"

	"github.com/gofiber/fiber/v2"
)

// TrackingHandler handles HTTP requests for tracking operations.
type TrackingHandler struct {
	trackingService ports.TrackingService
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(trackingService ports.TrackingService) *TrackingHandler {
	return &TrackingHandler{
		trackingService: trackingService,
	}
}

// GetTrackingHistory godoc
// @Summary Get tracking history for a shipment
// @Description Retrieves the timeline of a waybill. Placeholder waybills get a local pending timeline.
// @Tags tracking
// @Produce json
// @Param waybill path string true "Waybill"
// @Success 200 {object} domain.TrackingHistory
// @Failure 400 {object} server.ErrorResponse
// @Failure 404 {object} server.ErrorResponse
// @Failure 502 {object} server.ErrorResponse
// @Router /api/tracking/{waybill} [get]
func (h *TrackingHandler) GetTrackingHistory(c *fiber.Ctx) error {
	history, err := h.trackingService.GetTrackingHistory(c.UserContext(), c.Params("waybill"))
	if err != nil {
		if errors.Is(err, domain.ErrTrackingNotFound) {
			return server.Fail(c, fiber.StatusNotFound, "shipment not found")
		}
		return err
	}

	return c.JSON(history)
}
