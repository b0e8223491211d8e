// Package tui fills and runs a box from a terminal session.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-controlbox/pkg/control"
	"github.com/goliatone/go-controlbox/pkg/controlbox"
	"github.com/goliatone/go-controlbox/pkg/render"
)

// Name is the registry name of the renderer.
const Name = "tui"

// Renderer implements render.Renderer for terminal driven sessions: Render
// prompts every control, runs the configured mode and returns the serialized
// value.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	mode              Mode
	maxAttempts       int
	submitTransformer SubmitTransformer
	theme             Theme
	logger            *zap.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output,
// validate mode).
func New(options ...Option) *Renderer {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		mode:         ModeValidate,
		theme:        Theme{ErrorPrefix: "Invalid "},
		logger:       zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render runs the configured mode against box and serializes its value.
func (r *Renderer) Render(ctx context.Context, box *controlbox.Box, opts render.RenderOptions) ([]byte, error) {
	out, _, err := r.run(ctx, box, r.mode, opts)
	return out, err
}

// Run fills box then, depending on mode, validates or submits it. The
// serialized value is returned alongside the box result.
func (r *Renderer) Run(ctx context.Context, box *controlbox.Box, mode Mode) ([]byte, controlbox.Result, error) {
	return r.run(ctx, box, mode, render.RenderOptions{})
}

func (r *Renderer) run(ctx context.Context, box *controlbox.Box, mode Mode, opts render.RenderOptions) ([]byte, controlbox.Result, error) {
	if ctx == nil {
		return nil, controlbox.Result{}, errors.New("tui: context is required")
	}
	if box == nil {
		return nil, controlbox.Result{}, errors.New("tui: box is nil")
	}
	if err := r.fill(ctx, box, opts); err != nil {
		return nil, controlbox.Result{}, err
	}

	msgs := render.LocalizeMessages(box, opts)

	var (
		res controlbox.Result
		err error
	)
	switch mode {
	case ModeFill:
		res = controlbox.Result{State: box.State(), Value: box.Value()}
	case ModeSubmit:
		res, err = box.Submit(ctx)
	default:
		res, err = box.Validate(ctx)
	}
	if err == nil && res.State == controlbox.StateErroneous {
		// boxes built without propagation only record the failure
		err = box.Err()
		if err == nil {
			err = fmt.Errorf("tui: form is %s", res.State)
		}
	}
	if err != nil {
		_ = r.driver.Info(ctx, r.theme.ErrorPrefix+err.Error())
		return nil, res, err
	}
	if res.Guarded() {
		_ = r.driver.Info(ctx, r.theme.InfoPrefix+msgs.Pending)
		return nil, res, ErrPending
	}

	switch {
	case res.State == controlbox.StateValidated && box.ShowValidatedMessage():
		_ = r.driver.Info(ctx, r.theme.InfoPrefix+msgs.Validated)
	case res.State == controlbox.StateSubmitted && box.ShowSubmittedMessage():
		_ = r.driver.Info(ctx, r.theme.InfoPrefix+msgs.Submitted)
	}

	values := res.Value
	if values == nil {
		values = box.Value()
	}
	if r.submitTransformer != nil {
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, res, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	out, err := serialize(r.outputFormat, values)
	if err != nil {
		return nil, res, err
	}
	return out, res, nil
}

// Fill prompts every control of the box's form group in order, binding the
// answers. A control is prompted again while its own validation fails.
func (r *Renderer) Fill(ctx context.Context, box *controlbox.Box) error {
	if box == nil {
		return errors.New("tui: box is nil")
	}
	return r.fill(ctx, box, render.RenderOptions{})
}

func (r *Renderer) fill(ctx context.Context, box *controlbox.Box, opts render.RenderOptions) error {
	if r.driver == nil {
		return errors.New("tui: prompt driver is nil")
	}
	for _, c := range box.Controls() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.prompt(ctx, c, opts); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) prompt(ctx context.Context, c control.Control, opts render.RenderOptions) error {
	label := render.LocalizeLabel(opts, c.Name(), labelOf(c))
	help := helpOf(c)

	for attempt := 1; ; attempt++ {
		answered, err := r.ask(ctx, c, label, help)
		var invalid *invalidAnswer
		switch {
		case errors.As(err, &invalid):
			err = invalid.err
		case err != nil:
			return err
		case !answered:
			return nil
		default:
			outcome := c.Validate(ctx)
			if outcome.OK() {
				return nil
			}
			err = outcome.Err()
			if err == nil {
				err = fmt.Errorf("unexpected result %s", controlbox.Jsonify(outcome.Value()))
			}
		}

		msg := errorMessage(err)
		r.logger.Debug("tui: invalid answer",
			zap.String("control", c.Name()),
			zap.Int("attempt", attempt),
			zap.String("reason", msg))
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+c.Name()+": "+msg); err != nil {
			return err
		}
		if r.maxAttempts > 0 && attempt >= r.maxAttempts {
			return fmt.Errorf("%w: %s", ErrTooManyAttempts, c.Name())
		}
	}
}

// invalidAnswer marks input the control could not parse.
type invalidAnswer struct{ err error }

func (e *invalidAnswer) Error() string { return e.err.Error() }

// ask prompts for c according to its kind and binds the answer. It reports
// false for controls that cannot take an answer.
func (r *Renderer) ask(ctx context.Context, c control.Control, label, help string) (bool, error) {
	var (
		answer string
		err    error
	)
	switch typed := c.(type) {
	case *control.BooleanControl:
		checked, err := r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: typed.Checked(), Help: help})
		if err != nil {
			return false, err
		}
		typed.SetValue(checked)
		return true, nil
	case *control.ArrayControl:
		answer, err = r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: strings.Join(typed.Items(), "\n"), Help: help})
	case *control.StringControl:
		if typed.Multiline() {
			answer, err = r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: typed.Text(), Help: help})
		} else {
			answer, err = r.driver.Input(ctx, InputConfig{Message: label, Default: typed.Text(), Help: help})
		}
	case *control.NumberControl:
		def := ""
		if n, ok := typed.Number(); ok {
			def = strconv.FormatFloat(n, 'f', -1, 64)
		}
		answer, err = r.driver.Input(ctx, InputConfig{Message: label, Default: def, Help: help})
	case control.Binder:
		answer, err = r.driver.Input(ctx, InputConfig{Message: label, Default: fmt.Sprint(c.Value()), Help: help})
	default:
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := c.(control.Binder).Bind(answer); err != nil {
		return true, &invalidAnswer{err: err}
	}
	return true, nil
}

type labeled interface{ Label() string }
type helped interface{ Help() string }

func labelOf(c control.Control) string {
	if l, ok := c.(labeled); ok {
		return l.Label()
	}
	return c.Name()
}

func helpOf(c control.Control) string {
	if h, ok := c.(helped); ok {
		return h.Help()
	}
	return ""
}

func errorMessage(err error) string {
	var fe *control.FieldError
	if errors.As(err, &fe) {
		return fe.ErrorMessage()
	}
	return err.Error()
}
