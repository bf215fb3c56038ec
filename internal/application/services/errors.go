package services

import (
	"errors"
	"fmt"
)

// ValidationError marks a failure caused by bad caller input, so handlers can
// answer 400 instead of 500.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationErrorf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err originates from input validation.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
