package adapters

import (
	"fmt"

	"parcel-portal/internal/features/history/domain"

	"github.com/xuri/excelize/v2"
)

const historySheet = "History"

var historyHeaders = []string{
	"Waybill",
	"Courier",
	"Status",
	"Created",
	"Sender",
	"Sender city",
	"Receiver",
	"Receiver city",
	"Price (PLN)",
}

// XLSXRenderer implements ports.ReportRenderer with excelize.
type XLSXRenderer struct{}

// NewXLSXRenderer creates a new XLSXRenderer.
func NewXLSXRenderer() *XLSXRenderer {
	return &XLSXRenderer{}
}

// Render writes a single sheet: the range, a header row and one row per order.
func (g *XLSXRenderer) Render(items []domain.Item, r domain.Range) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", historySheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(historySheet, cell, value)
	}

	set("A1", "From")
	set("B1", r.From)
	set("A2", "To")
	set("B2", r.To)
	set("A3", "Orders")
	set("B3", len(items))

	headerRow := 5
	for i, header := range historyHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		set(cell, header)
	}

	bold, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = file.SetCellStyle(historySheet, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("I%d", headerRow), bold)
	}

	var total float64
	for i, item := range items {
		row := headerRow + 1 + i
		set(fmt.Sprintf("A%d", row), waybillText(item.Waybill))
		set(fmt.Sprintf("B%d", row), item.CourierName)
		set(fmt.Sprintf("C%d", row), item.Status)
		set(fmt.Sprintf("D%d", row), item.CreationDate)
		set(fmt.Sprintf("E%d", row), item.Sender.DisplayName())
		set(fmt.Sprintf("F%d", row), item.Sender.City)
		set(fmt.Sprintf("G%d", row), item.Receiver.DisplayName())
		set(fmt.Sprintf("H%d", row), item.Receiver.City)
		if item.Price != nil {
			set(fmt.Sprintf("I%d", row), *item.Price)
			total += *item.Price
		}
	}

	totalRow := headerRow + len(items) + 1
	set(fmt.Sprintf("H%d", totalRow), "Total")
	set(fmt.Sprintf("I%d", totalRow), total)

	_ = file.SetColWidth(historySheet, "A", "A", 24)
	_ = file.SetColWidth(historySheet, "B", "D", 18)
	_ = file.SetColWidth(historySheet, "E", "H", 28)
	_ = file.SetColWidth(historySheet, "I", "I", 12)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func waybillText(w *string) string {
	if w == nil || *w == "" {
		return "-"
	}
	return *w
}
