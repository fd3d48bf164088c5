package model

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks structurally impossible input. Callers match it with
// errors.Is and must not retry with the same input.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError describes which field broke a structural rule.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput, e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidInput) match any InvalidInputError.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Invalid builds an InvalidInputError for field.
func Invalid(field, format string, args ...any) error {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
