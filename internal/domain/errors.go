package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the sentinel behind every input validation failure.
var ErrInvalidInput = errors.New("invalid input")

// InputError wraps ErrInvalidInput with the offending field.
type InputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s: %s (value=%q)", ErrInvalidInput, e.Field, e.Reason, e.Value)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// NewInputError creates an InputError.
func NewInputError(field, value, reason string) *InputError {
	return &InputError{Field: field, Value: value, Reason: reason}
}
