package control

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"
)

// StringControl holds a single line or multiline text value.
type StringControl struct {
	*Basic

	placeholder string
	multiline   bool
	minLength   int
	maxLength   int
	pattern     *regexp.Regexp

	mu    sync.RWMutex
	value string
}

var (
	_ Control = (*StringControl)(nil)
	_ Binder  = (*StringControl)(nil)
)

// NewString constructs a text control.
func NewString(name string, options ...Option) *StringControl {
	cfg := newConfig(options)
	c := &StringControl{
		Basic:       newBasic(name, cfg),
		placeholder: cfg.placeholder,
		multiline:   cfg.multiline,
		minLength:   cfg.minLength,
		maxLength:   cfg.maxLength,
		pattern:     cfg.pattern,
	}
	if cfg.initial != nil {
		c.value = fmt.Sprint(cfg.initial)
	}
	return c
}

// Kind implements Kinded.
func (c *StringControl) Kind() string { return KindString }

// Placeholder returns the input placeholder.
func (c *StringControl) Placeholder() string { return c.placeholder }

// Multiline reports whether the control is a textarea.
func (c *StringControl) Multiline() bool { return c.multiline }

// Text returns the current value.
func (c *StringControl) Text() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Value implements Control.
func (c *StringControl) Value() any {
	return c.Text()
}

// SetValue replaces the current value.
func (c *StringControl) SetValue(value string) {
	c.mu.Lock()
	c.value = value
	c.mu.Unlock()
}

// Bind implements Binder. Text input never fails to bind.
func (c *StringControl) Bind(raw string) error {
	c.SetValue(raw)
	return nil
}

// Validate implements Control.
func (c *StringControl) Validate(ctx context.Context) Outcome {
	value := c.Text()
	empty := strings.TrimSpace(value) == ""
	return c.check(ctx, value, empty, func() error {
		return checkText(value, c.minLength, c.maxLength, c.pattern)
	})
}

func checkText(value string, minLength, maxLength int, pattern *regexp.Regexp) error {
	length := utf8.RuneCountInString(value)
	if minLength > 0 && length < minLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrOutOfRange, minLength)
	}
	if maxLength > 0 && length > maxLength {
		return fmt.Errorf("%w: must be at most %d characters", ErrOutOfRange, maxLength)
	}
	if pattern != nil && !pattern.MatchString(value) {
		return fmt.Errorf("%w %s", ErrPattern, pattern.String())
	}
	return nil
}
