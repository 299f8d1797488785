package activity

import (
	"errors"
	"fmt"
)

// ValidationError reports input rejected before any mutation took place.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NewValidationError is used by callers validating their own parameters (dates, ranges).
func NewValidationError(field, reason string) error {
	return invalid(field, reason)
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
