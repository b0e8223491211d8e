package controlbox

import (
	"errors"
	"fmt"
	"strings"
)

// PendingMessage is returned by Validate while a previous pass is running.
const PendingMessage = "Wait for the previous validation to finish"

var (
	// ErrInvalidArgument marks programming errors in calls into a box.
	ErrInvalidArgument = errors.New("controlbox: invalid argument")
	// ErrInvalidState is returned by SetState for unknown states.
	ErrInvalidState = fmt.Errorf("%w: state must be one of pending, validated, erroneous or submitted", ErrInvalidArgument)
)

// ValidationError aggregates the errors reported by controls during a single
// validation pass, in control order.
type ValidationError struct {
	Errors []error
}

func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Errors))
	for idx, err := range e.Errors {
		lines = append(lines, fmt.Sprintf("%d. %s: %s", idx+1, errorName(err), errorMessage(err)))
	}
	return fmt.Sprintf("Cannot validate form due to %d error(s) arised on validation:\n%s", len(e.Errors), strings.Join(lines, "\n"))
}

// Unwrap exposes the individual control errors to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	return e.Errors
}

// ErrorName implements the naming hook used by summaries and error displays.
func (e *ValidationError) ErrorName() string { return "ValidationError" }

// UnknownObjectsError reports control validators that returned values which
// are neither errors nor a pass.
type UnknownObjectsError struct {
	Objects []any
}

func (e *UnknownObjectsError) Error() string {
	lines := make([]string, 0, len(e.Objects))
	for idx, obj := range e.Objects {
		lines = append(lines, fmt.Sprintf("%d. %s", idx+1, Jsonify(obj)))
	}
	return fmt.Sprintf("Cannot validate form due to %d unknown object(s) returned on validation:\n%s", len(e.Objects), strings.Join(lines, "\n"))
}

// ErrorName implements the naming hook used by summaries and error displays.
func (e *UnknownObjectsError) ErrorName() string { return "UnknownObjectsError" }

type namedError interface {
	ErrorName() string
}

type messagedError interface {
	ErrorMessage() string
}

func errorName(err error) string {
	var named namedError
	if errors.As(err, &named) {
		if name := strings.TrimSpace(named.ErrorName()); name != "" {
			return name
		}
	}
	return "Error"
}

func errorMessage(err error) string {
	var messaged messagedError
	if errors.As(err, &messaged) {
		return messaged.ErrorMessage()
	}
	return err.Error()
}
