package control

import (
	"fmt"
	"regexp"
	"strings"
)

// Spec is the declarative description of a control, as found in form
// definition files.
type Spec struct {
	Kind        string   `json:"kind" yaml:"kind"`
	Name        string   `json:"name" yaml:"name"`
	FormID      string   `json:"formId,omitempty" yaml:"formId,omitempty"`
	Label       string   `json:"label,omitempty" yaml:"label,omitempty"`
	Help        string   `json:"help,omitempty" yaml:"help,omitempty"`
	Placeholder string   `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Multiline   bool     `json:"multiline,omitempty" yaml:"multiline,omitempty"`
	Required    bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Integer     bool     `json:"integer,omitempty" yaml:"integer,omitempty"`
	Min         *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	MinLength   int      `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength   int      `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	MinItems    int      `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems    int      `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`
	Pattern     string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Default     any      `json:"default,omitempty" yaml:"default,omitempty"`
}

// Options translates s into construction options.
func (s Spec) Options() ([]Option, error) {
	opts := []Option{
		WithFormID(s.FormID),
		WithLabel(s.Label),
		WithHelp(s.Help),
		WithPlaceholder(s.Placeholder),
		WithMultiline(s.Multiline),
		WithRequired(s.Required),
		WithInteger(s.Integer),
		WithLength(s.MinLength, s.MaxLength),
		WithItems(s.MinItems, s.MaxItems),
	}
	if s.Min != nil {
		opts = append(opts, WithMin(*s.Min))
	}
	if s.Max != nil {
		opts = append(opts, WithMax(*s.Max))
	}
	if pattern := strings.TrimSpace(s.Pattern); pattern != "" {
		expr, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("control: %s: compile pattern: %w", s.Name, err)
		}
		opts = append(opts, WithPattern(expr))
	}
	if s.Default != nil {
		opts = append(opts, WithInitial(s.Default))
	}
	return opts, nil
}
