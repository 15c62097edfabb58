package adapters

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// DemoWatermark is printed on every locally rendered label.
const DemoWatermark = "DEMO - not valid for shipping"

// PDFRenderer implements ports.DemoRenderer with gofpdf.
type PDFRenderer struct {
	now func() time.Time
}

// NewPDFRenderer creates a new PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{now: time.Now}
}

// Render draws an A6 label carrying the waybill and the demo watermark.
func (g *PDFRenderer) Render(waybill string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A6", "")
	pdf.SetMargins(8, 8, 8)
	pdf.SetTitle("Label "+waybill, false)
	pdf.AddPage()

	pdf.SetDrawColor(0, 0, 0)
	pdf.Rect(5, 5, 95, 138, "D")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "SHIPPING LABEL", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Waybill", "", 1, "L", false, 0, "")
	pdf.SetFont("Courier", "B", 14)
	pdf.CellFormat(0, 10, waybill, "1", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated %s", g.now().UTC().Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(20)

	pdf.SetTextColor(200, 0, 0)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.MultiCell(0, 7, DemoWatermark, "1", "C", false)
	pdf.SetTextColor(0, 0, 0)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render demo label: %w", err)
	}
	return buf.Bytes(), nil
}
