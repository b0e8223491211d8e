package controlbox

// Clearer is implemented by owners that can drop a displayed error.
type Clearer interface {
	ClearError()
}

// ErrorDisplay is the view model of a caught error: its name, message and
// stack, plus a dismiss action delegating to the owner.
type ErrorDisplay struct {
	err   error
	stack string
	owner Clearer
}

// NewErrorDisplay wraps err for display. owner may be nil, in which case
// Dismiss does nothing.
func NewErrorDisplay(err error, owner Clearer) *ErrorDisplay {
	return &ErrorDisplay{err: err, owner: owner}
}

// Err returns the wrapped error.
func (d *ErrorDisplay) Err() error {
	if d == nil {
		return nil
	}
	return d.err
}

// Name returns the error name, "Error" unless the error names itself.
func (d *ErrorDisplay) Name() string {
	if d == nil || d.err == nil {
		return ""
	}
	return errorName(d.err)
}

// Message returns the full error message.
func (d *ErrorDisplay) Message() string {
	if d == nil || d.err == nil {
		return ""
	}
	return d.err.Error()
}

// Stack returns the stack captured when the error was recorded, if any.
func (d *ErrorDisplay) Stack() string {
	if d == nil {
		return ""
	}
	return d.stack
}

// Dismiss clears the error on the owner. It reports whether an owner was
// there to clear it.
func (d *ErrorDisplay) Dismiss() bool {
	if d == nil || d.owner == nil {
		return false
	}
	d.owner.ClearError()
	return true
}
