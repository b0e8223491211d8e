package control

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// BooleanControl holds a checkbox style flag. A required boolean must be
// true, the way an "accept terms" box works.
type BooleanControl struct {
	*Basic

	mu    sync.RWMutex
	value bool
}

var (
	_ Control = (*BooleanControl)(nil)
	_ Binder  = (*BooleanControl)(nil)
)

// NewBoolean constructs a boolean control.
func NewBoolean(name string, options ...Option) *BooleanControl {
	cfg := newConfig(options)
	c := &BooleanControl{Basic: newBasic(name, cfg)}
	if b, ok := cfg.initial.(bool); ok {
		c.value = b
	}
	return c
}

// Kind implements Kinded.
func (c *BooleanControl) Kind() string { return KindBoolean }

// Checked returns the current value.
func (c *BooleanControl) Checked() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Value implements Control.
func (c *BooleanControl) Value() any {
	return c.Checked()
}

// SetValue replaces the current value.
func (c *BooleanControl) SetValue(value bool) {
	c.mu.Lock()
	c.value = value
	c.mu.Unlock()
}

// Bind implements Binder. HTML checkboxes post "on"; a missing field binds
// as blank and therefore false.
func (c *BooleanControl) Bind(raw string) error {
	value, err := parseBool(raw)
	if err != nil {
		fe := fieldError(c.Name(), err)
		c.SetErr(fe)
		return fe
	}
	c.SetValue(value)
	return nil
}

// Validate implements Control.
func (c *BooleanControl) Validate(ctx context.Context) Outcome {
	checked := c.Checked()
	return c.check(ctx, checked, !checked, nil)
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "off", "no", "n":
		return false, nil
	case "on", "yes", "y":
		return true, nil
	}
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidInput, raw)
	}
	return value, nil
}
