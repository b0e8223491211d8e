package controlbox

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-controlbox/pkg/control"
)

// Result describes how a Validate or Submit call ended.
type Result struct {
	State State
	Value map[string]any
	// Message is set to PendingMessage when the call was refused because a
	// pass was already running.
	Message string
}

// Guarded reports whether the call was refused by the pending guard.
func (r Result) Guarded() bool {
	return r.Message == PendingMessage
}

// member is either a control or a nested box, kept in insertion order.
type member struct {
	control control.Control
	box     *Box
}

// Box is a form container. The zero value is not usable; call New.
type Box struct {
	cfg    config
	logger *zap.Logger

	mu      sync.Mutex
	state   State
	err     error
	stack   string
	members []member
}

// New constructs an unstarted box.
func New(options ...Option) *Box {
	cfg := defaultConfig()
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return &Box{
		cfg:    cfg,
		logger: cfg.logger.With(zap.String("form_id", cfg.formID)),
		state:  StateUnstarted,
	}
}

// FormID returns the form group discriminator.
func (b *Box) FormID() string { return b.cfg.formID }

// ValidateButton returns the validate action label; empty hides it.
func (b *Box) ValidateButton() string { return b.cfg.validateButton }

// SubmitButton returns the submit action label; empty hides it.
func (b *Box) SubmitButton() string { return b.cfg.submitButton }

// ShowValidatedMessage reports whether the validated banner is enabled.
func (b *Box) ShowValidatedMessage() bool { return b.cfg.showValidatedMessage }

// ShowSubmittedMessage reports whether the submitted banner is enabled.
func (b *Box) ShowSubmittedMessage() bool { return b.cfg.showSubmittedMessage }

// Add registers controls with the box, in order.
func (b *Box) Add(controls ...control.Control) error {
	for idx, c := range controls {
		if c == nil {
			return fmt.Errorf("%w: control %d is nil", ErrInvalidArgument, idx)
		}
		if strings.TrimSpace(c.Name()) == "" {
			return fmt.Errorf("%w: control %d has no name", ErrInvalidArgument, idx)
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range controls {
		b.members = append(b.members, member{control: c})
	}
	return nil
}

// MustAdd mirrors Add but panics on error.
func (b *Box) MustAdd(controls ...control.Control) *Box {
	if err := b.Add(controls...); err != nil {
		panic(err)
	}
	return b
}

// Nest registers a child box. Controls of the child that belong to this
// box's form group take part in this box's value and validation.
func (b *Box) Nest(child *Box) error {
	if child == nil {
		return fmt.Errorf("%w: nested box is nil", ErrInvalidArgument)
	}
	if child == b || child.contains(b) {
		return fmt.Errorf("%w: nesting would create a cycle", ErrInvalidArgument)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.members = append(b.members, member{box: child})
	return nil
}

// Children returns the directly owned controls and boxes in insertion
// order; exactly one field of each entry is set.
func (b *Box) Children() []Child {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Child, len(b.members))
	for idx, m := range b.members {
		out[idx] = Child{Control: m.control, Box: m.box}
	}
	return out
}

// Child is an entry returned by Children.
type Child struct {
	Control control.Control
	Box     *Box
}

func (b *Box) contains(target *Box) bool {
	for _, m := range b.snapshot() {
		if m.box == nil {
			continue
		}
		if m.box == target || m.box.contains(target) {
			return true
		}
	}
	return false
}

func (b *Box) snapshot() []member {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]member(nil), b.members...)
}

// Controls returns the controls of this box's form group, depth first in
// registration order. Controls without a form id belong to the box that
// owns them.
func (b *Box) Controls() []control.Control {
	return b.collect(b.cfg.formID, nil)
}

func (b *Box) collect(formID string, out []control.Control) []control.Control {
	for _, m := range b.snapshot() {
		if m.box != nil {
			out = m.box.collect(formID, out)
			continue
		}
		id := m.control.FormID()
		if id == "" {
			id = b.cfg.formID
		}
		if id == formID {
			out = append(out, m.control)
		}
	}
	return out
}

// Lookup returns the last control of the form group with the given name.
func (b *Box) Lookup(name string) (control.Control, bool) {
	var found control.Control
	for _, c := range b.Controls() {
		if c.Name() == name {
			found = c
		}
	}
	return found, found != nil
}

// Value aggregates the current control values keyed by control name. Later
// controls overwrite earlier ones sharing a name. The map is rebuilt on
// every call.
func (b *Box) Value() map[string]any {
	out := make(map[string]any)
	for _, c := range b.Controls() {
		out[c.Name()] = c.Value()
	}
	return out
}

// State returns the current state.
func (b *Box) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// SetState moves the box to state. Unknown states fail with ErrInvalidState
// and leave the box untouched. Any state but erroneous drops the recorded
// error.
func (b *Box) SetState(state State) error {
	if !state.Settable() {
		return fmt.Errorf("%w, got %q", ErrInvalidState, state)
	}
	b.mu.Lock()
	if state != StateErroneous {
		b.err = nil
		b.stack = ""
	}
	b.transition(state)
	b.mu.Unlock()
	return nil
}

// transition must be called with mu held.
func (b *Box) transition(state State) {
	if b.state == state {
		return
	}
	b.logger.Debug("controlbox: state change",
		zap.String("from", b.state.String()),
		zap.String("to", state.String()))
	b.state = state
}

// Err returns the recorded error, nil when there is none.
func (b *Box) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// SetError records err and moves the box to erroneous without returning it.
// A nil error clears the recorded one.
func (b *Box) SetError(err error) {
	if err == nil {
		b.ClearError()
		return
	}
	_ = b.HandleError(err, false)
}

// ClearError drops the recorded error. The state is left as is.
func (b *Box) ClearError() {
	b.mu.Lock()
	b.err = nil
	b.stack = ""
	b.mu.Unlock()
}

// HandleError records err, forces the erroneous state and returns err when
// propagate is set.
func (b *Box) HandleError(err error, propagate bool) error {
	if err == nil {
		return nil
	}
	b.mu.Lock()
	b.err = err
	b.stack = string(debug.Stack())
	b.transition(StateErroneous)
	b.mu.Unlock()

	b.logger.Warn("controlbox: form failed", zap.Error(err))
	if propagate {
		return err
	}
	return nil
}

// ErrorDisplay returns a display model for the recorded error, or nil.
func (b *Box) ErrorDisplay() *ErrorDisplay {
	b.mu.Lock()
	err, stack := b.err, b.stack
	b.mu.Unlock()
	if err == nil {
		return nil
	}
	display := NewErrorDisplay(err, b)
	display.stack = stack
	return display
}

// Validate runs every control's validation in order, then the form level
// callback. See the package documentation for the state machine.
func (b *Box) Validate(ctx context.Context) (Result, error) {
	if !b.begin() {
		b.logger.Debug("controlbox: validation already pending")
		return Result{State: StatePending, Message: PendingMessage}, nil
	}

	value, err := b.runValidation(ctx)
	if err != nil {
		return b.fail(err)
	}

	b.mu.Lock()
	b.err = nil
	b.stack = ""
	b.transition(StateValidated)
	b.mu.Unlock()
	return Result{State: StateValidated, Value: value}, nil
}

// Submit validates the box and, when validation succeeded, hands the value
// to the submission callback.
func (b *Box) Submit(ctx context.Context) (Result, error) {
	result, err := b.Validate(ctx)
	if err != nil || result.Guarded() || result.State != StateValidated {
		return result, err
	}

	value := b.Value()
	if b.cfg.onSubmit != nil {
		if err := b.cfg.onSubmit(ctx, value, b); err != nil {
			return b.fail(err)
		}
	}

	b.mu.Lock()
	b.transition(StateSubmitted)
	b.mu.Unlock()
	b.logger.Info("controlbox: form submitted", zap.Int("fields", len(value)))
	return Result{State: StateSubmitted, Value: value}, nil
}

// begin atomically applies the pending guard.
func (b *Box) begin() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StatePending {
		return false
	}
	b.err = nil
	b.stack = ""
	b.transition(StatePending)
	return true
}

func (b *Box) runValidation(ctx context.Context) (map[string]any, error) {
	var (
		errs    []error
		unknown []any
	)
	for _, c := range b.Controls() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		outcome := c.Validate(ctx)
		switch outcome.Kind() {
		case control.OutcomeFail:
			errs = append(errs, outcome.Err())
		case control.OutcomeUnexpected:
			unknown = append(unknown, outcome.Value())
		}
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	if len(unknown) > 0 {
		return nil, &UnknownObjectsError{Objects: unknown}
	}

	value := b.Value()
	if b.cfg.onValidate != nil {
		if err := b.cfg.onValidate(ctx, value, b); err != nil {
			return nil, err
		}
	}
	return value, nil
}

func (b *Box) fail(err error) (Result, error) {
	return Result{State: StateErroneous}, b.HandleError(err, b.cfg.propagate)
}
