package control

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
)

// MaxSafeInteger bounds integer controls; larger magnitudes cannot be held
// exactly by the float64 value.
const MaxSafeInteger = 1<<53 - 1

// NumberControl holds an optional numeric value.
type NumberControl struct {
	*Basic

	min     *float64
	max     *float64
	integer bool

	mu    sync.RWMutex
	value *float64
}

var (
	_ Control = (*NumberControl)(nil)
	_ Binder  = (*NumberControl)(nil)
)

// NewNumber constructs a numeric control.
func NewNumber(name string, options ...Option) *NumberControl {
	cfg := newConfig(options)
	c := &NumberControl{
		Basic:   newBasic(name, cfg),
		min:     cfg.min,
		max:     cfg.max,
		integer: cfg.integer,
	}
	if n, ok := toFloat(cfg.initial); ok {
		c.value = &n
	}
	return c
}

// Kind implements Kinded.
func (c *NumberControl) Kind() string { return KindNumber }

// Integer reports whether only whole numbers are accepted.
func (c *NumberControl) Integer() bool { return c.integer }

// Bounds returns the configured range; nil means unbounded.
func (c *NumberControl) Bounds() (min, max *float64) { return c.min, c.max }

// Number returns the current value and whether one is set.
func (c *NumberControl) Number() (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.value == nil {
		return 0, false
	}
	return *c.value, true
}

// Value implements Control. Unset controls report nil; integer controls
// report int64 while the value is a whole number within MaxSafeInteger.
func (c *NumberControl) Value() any {
	n, ok := c.Number()
	if !ok {
		return nil
	}
	if c.integer && n == math.Trunc(n) && math.Abs(n) <= MaxSafeInteger {
		return int64(n)
	}
	return n
}

// SetValue replaces the current value.
func (c *NumberControl) SetValue(n float64) {
	c.mu.Lock()
	c.value = &n
	c.mu.Unlock()
}

// Clear unsets the value.
func (c *NumberControl) Clear() {
	c.mu.Lock()
	c.value = nil
	c.mu.Unlock()
}

// Bind implements Binder. Blank input clears the value.
func (c *NumberControl) Bind(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		c.Clear()
		return nil
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		fe := fieldError(c.Name(), fmt.Errorf("%w: %q is not a number", ErrInvalidInput, trimmed))
		c.SetErr(fe)
		return fe
	}
	c.SetValue(n)
	return nil
}

// Validate implements Control.
func (c *NumberControl) Validate(ctx context.Context) Outcome {
	n, ok := c.Number()
	return c.check(ctx, c.Value(), !ok, func() error {
		if c.integer && n != math.Trunc(n) {
			return fmt.Errorf("%w: %v is not a whole number", ErrInvalidInput, n)
		}
		if c.integer && math.Abs(n) > MaxSafeInteger {
			return fmt.Errorf("%w: must be within ±%d", ErrOutOfRange, int64(MaxSafeInteger))
		}
		if c.min != nil && n < *c.min {
			return fmt.Errorf("%w: must be at least %v", ErrOutOfRange, *c.min)
		}
		if c.max != nil && n > *c.max {
			return fmt.Errorf("%w: must be at most %v", ErrOutOfRange, *c.max)
		}
		return nil
	})
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return n, err == nil
	default:
		return 0, false
	}
}
