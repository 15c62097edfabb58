package apperror

import (
	"errors"
	"strings"
)

// ValidationDetail names a single invalid input field.
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is a locally detected input problem. It never reaches the network.
type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	fields := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		fields = append(fields, d.Field)
	}
	return e.Message + " (" + strings.Join(fields, ", ") + ")"
}

// NewValidationError creates a ValidationError with optional field details.
func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

// Field is a shorthand for building a ValidationDetail.
func Field(field, message string) ValidationDetail {
	return ValidationDetail{Field: field, Message: message}
}

// AsValidation reports whether err is (or wraps) a ValidationError.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
