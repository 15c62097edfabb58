package domain

import (
	"errors"
	"strings"

	"parcel-portal/internal/core/apperror"
)

// ErrLabelNotAvailable is returned when the API has no label for the waybill.
var ErrLabelNotAvailable = errors.New("label not available")

// Format is the label document format requested from the API.
type Format string

const (
	FormatPDF Format = "PDF"
	FormatZPL Format = "ZPL"
	FormatEPL Format = "EPL"
)

// DefaultFormat is used when no type is requested.
const DefaultFormat = FormatPDF

// ParseFormat normalizes the requested type.
func ParseFormat(raw string) (Format, error) {
	f := Format(strings.ToUpper(strings.TrimSpace(raw)))
	switch f {
	case "":
		return DefaultFormat, nil
	case FormatPDF, FormatZPL, FormatEPL:
		return f, nil
	}
	return "", apperror.NewValidationError("unsupported label type", apperror.Field("type", "expected PDF, ZPL or EPL"))
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Extension is the file extension of the format.
func (f Format) Extension() string {
	return strings.ToLower(string(f))
}

// Label is a decoded shipping label.
type Label struct {
	Waybill string
	Format  Format
	Data    []byte
	// Demo marks a locally rendered label for a placeholder waybill.
	Demo bool
}

// Filename is the attachment name of the label.
func (l Label) Filename() string {
	return "label-" + l.Waybill + "." + l.Format.Extension()
}
