package controlbox

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// DefaultFormID is the form group used when none is configured.
const DefaultFormID = "default"

// Callback is invoked with the aggregated value and the box that produced
// it. A non-nil error fails the pass.
type Callback func(ctx context.Context, value map[string]any, box *Box) error

// Option configures a Box.
type Option func(*config)

type config struct {
	formID               string
	validateButton       string
	submitButton         string
	onValidate           Callback
	onSubmit             Callback
	showValidatedMessage bool
	showSubmittedMessage bool
	propagate            bool
	logger               *zap.Logger
}

func defaultConfig() config {
	return config{
		formID:               DefaultFormID,
		showValidatedMessage: true,
		showSubmittedMessage: true,
		propagate:            true,
		logger:               zap.NewNop(),
	}
}

// WithFormID sets the form group discriminator.
func WithFormID(id string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			cfg.formID = trimmed
		}
	}
}

// WithValidateButton sets the label of the validate action. An empty label
// hides the action.
func WithValidateButton(label string) Option {
	return func(cfg *config) {
		cfg.validateButton = label
	}
}

// WithSubmitButton sets the label of the submit action. An empty label hides
// the action.
func WithSubmitButton(label string) Option {
	return func(cfg *config) {
		cfg.submitButton = label
	}
}

// WithOnValidate sets the form level validation callback, run after every
// control passed.
func WithOnValidate(fn Callback) Option {
	return func(cfg *config) {
		cfg.onValidate = fn
	}
}

// WithOnSubmit sets the submission callback.
func WithOnSubmit(fn Callback) Option {
	return func(cfg *config) {
		cfg.onSubmit = fn
	}
}

// WithValidatedMessage toggles the banner shown in the validated state.
func WithValidatedMessage(show bool) Option {
	return func(cfg *config) {
		cfg.showValidatedMessage = show
	}
}

// WithSubmittedMessage toggles the banner shown in the submitted state.
func WithSubmittedMessage(show bool) Option {
	return func(cfg *config) {
		cfg.showSubmittedMessage = show
	}
}

// WithPropagation controls whether Validate and Submit return the errors
// they record. When disabled the error is only stored on the box.
func WithPropagation(propagate bool) Option {
	return func(cfg *config) {
		cfg.propagate = propagate
	}
}

// WithLogger sets the logger used for state transitions and failures.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}
