package control

import (
	"errors"
	"strings"
)

var (
	// ErrRequired marks a missing value on a required control.
	ErrRequired = errors.New("value is required")
	// ErrOutOfRange marks numeric values or lengths outside configured bounds.
	ErrOutOfRange = errors.New("value out of range")
	// ErrPattern marks text that does not match the configured pattern.
	ErrPattern = errors.New("value does not match pattern")
	// ErrInvalidInput marks textual input a control could not parse.
	ErrInvalidInput = errors.New("invalid input")
)

// FieldError is a validation error attributed to a single control. Its
// ErrorName is the control name so form summaries read "name: message".
type FieldError struct {
	Field   string
	Message string
	Err     error
}

func (e *FieldError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *FieldError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ErrorName returns the control the error belongs to.
func (e *FieldError) ErrorName() string {
	if e == nil {
		return ""
	}
	return e.Field
}

// ErrorMessage returns the message without the field prefix.
func (e *FieldError) ErrorMessage() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func fieldError(field string, err error) *FieldError {
	var fe *FieldError
	if errors.As(err, &fe) {
		if fe.Field == "" {
			clone := *fe
			clone.Field = field
			return &clone
		}
		return fe
	}
	return &FieldError{
		Field:   field,
		Message: strings.TrimSpace(err.Error()),
		Err:     err,
	}
}
