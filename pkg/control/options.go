package control

import (
	"context"
	"regexp"
	"strings"
)

// Validator inspects a control value. Returning a non-nil error fails the
// control.
type Validator func(ctx context.Context, value any) error

// Option configures a control at construction. Options that do not apply to
// a kind are ignored by it.
type Option func(*config)

type config struct {
	formID      string
	label       string
	help        string
	required    bool
	validators  []Validator
	placeholder string
	multiline   bool
	minLength   int
	maxLength   int
	min         *float64
	max         *float64
	integer     bool
	pattern     *regexp.Regexp
	minItems    int
	maxItems    int
	initial     any
}

func newConfig(options []Option) config {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// WithFormID assigns the control to a form group. Controls without a form id
// join the group of the box that owns them.
func WithFormID(id string) Option {
	return func(cfg *config) {
		cfg.formID = strings.TrimSpace(id)
	}
}

// WithLabel sets the human readable label.
func WithLabel(label string) Option {
	return func(cfg *config) {
		cfg.label = label
	}
}

// WithHelp sets help text. Renderers may allow limited markup in it.
func WithHelp(help string) Option {
	return func(cfg *config) {
		cfg.help = help
	}
}

// WithRequired marks the control as required.
func WithRequired(required bool) Option {
	return func(cfg *config) {
		cfg.required = required
	}
}

// WithValidator appends a custom validator run after the built-in checks.
func WithValidator(fn Validator) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.validators = append(cfg.validators, fn)
		}
	}
}

// WithPlaceholder sets the input placeholder.
func WithPlaceholder(placeholder string) Option {
	return func(cfg *config) {
		cfg.placeholder = placeholder
	}
}

// WithMultiline renders string controls as a textarea.
func WithMultiline(multiline bool) Option {
	return func(cfg *config) {
		cfg.multiline = multiline
	}
}

// WithLength bounds string length in runes. Zero disables a bound.
func WithLength(min, max int) Option {
	return func(cfg *config) {
		cfg.minLength = min
		cfg.maxLength = max
	}
}

// WithMin sets the lower bound for number controls.
func WithMin(min float64) Option {
	return func(cfg *config) {
		cfg.min = &min
	}
}

// WithMax sets the upper bound for number controls.
func WithMax(max float64) Option {
	return func(cfg *config) {
		cfg.max = &max
	}
}

// WithInteger restricts number controls to whole numbers.
func WithInteger(integer bool) Option {
	return func(cfg *config) {
		cfg.integer = integer
	}
}

// WithPattern requires string values (or every array item) to match expr.
func WithPattern(expr *regexp.Regexp) Option {
	return func(cfg *config) {
		cfg.pattern = expr
	}
}

// WithItems bounds the number of array items. Zero disables a bound.
func WithItems(min, max int) Option {
	return func(cfg *config) {
		cfg.minItems = min
		cfg.maxItems = max
	}
}

// WithInitial seeds the control value. The value is converted by the kind
// and silently ignored when it cannot be.
func WithInitial(value any) Option {
	return func(cfg *config) {
		cfg.initial = value
	}
}
