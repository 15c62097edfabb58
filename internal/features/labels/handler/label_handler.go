package handler

import (
	"errors"
	"strconv"

	"parcel-portal/internal/core/server"
	"parcel-portal/internal/features/labels/domain"
	"parcel-portal/internal/features/labels/ports"

	"github.com/gofiber/fiber/v2"
)

// DemoHeader is set on locally rendered labels.
const DemoHeader = "X-Label-Demo"

// LabelHandler handles HTTP requests for label downloads.
type LabelHandler struct {
	service ports.LabelService
}

// NewLabelHandler creates a new LabelHandler.
func NewLabelHandler(service ports.LabelService) *LabelHandler {
	return &LabelHandler{
		service: service,
	}
}

// Download godoc
// @Summary Download a shipping label
// @Description Decodes the label of the waybill. Placeholder waybills get a demo PDF.
// @Tags labels
// @Produce application/pdf
// @Param waybill path string true "Waybill"
// @Param type query string false "PDF (default), ZPL or EPL"
// @Success 200 {file} file
// @Failure 400 {object} server.ErrorResponse
// @Failure 404 {object} server.ErrorResponse
// @Failure 502 {object} server.ErrorResponse
// @Router /api/labels/{waybill} [get]
func (h *LabelHandler) Download(c *fiber.Ctx) error {
	label, err := h.service.Label(c.UserContext(), c.Params("waybill"), c.Query("type"))
	if err != nil {
		if errors.Is(err, domain.ErrLabelNotAvailable) {
			return server.Fail(c, fiber.StatusNotFound, "label not available")
		}
		return err
	}

	c.Set(fiber.HeaderContentType, label.Format.ContentType())
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+label.Filename()+`"`)
	c.Set(DemoHeader, strconv.FormatBool(label.Demo))
	return c.Send(label.Data)
}
