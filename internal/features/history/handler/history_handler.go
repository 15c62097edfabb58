package handler

import (
	"parcel-portal/internal/features/history/ports"

	"github.com/gofiber/fiber/v2"
)

// XLSXContentType is the MIME type of the export.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HistoryHandler handles HTTP requests for the order history.
type HistoryHandler struct {
	service ports.HistoryService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(service ports.HistoryService) *HistoryHandler {
	return &HistoryHandler{
		service: service,
	}
}

// Page godoc
// @Summary Order history
// @Description One 0-based page of ten orders. The range defaults to the last 30 days.
// @Tags history
// @Produce json
// @Param page query int false "Page, 0-based"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.Page
// @Failure 400 {object} server.ErrorResponse
// @Failure 401 {object} server.ErrorResponse
// @Router /api/history [get]
func (h *HistoryHandler) Page(c *fiber.Ctx) error {
	page := c.QueryInt("page", 0)

	result, err := h.service.Page(c.UserContext(), page, c.Query("from"), c.Query("to"))
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Export godoc
// @Summary Export order history
// @Description Renders every order of the range as an XLSX workbook.
// @Tags history
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 400 {object} server.ErrorResponse
// @Router /api/history/export [get]
func (h *HistoryHandler) Export(c *fiber.Ctx) error {
	data, err := h.service.Export(c.UserContext(), c.Query("from"), c.Query("to"))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, XLSXContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="order-history.xlsx"`)
	return c.Send(data)
}
