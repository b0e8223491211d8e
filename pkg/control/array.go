package control

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// ArrayControl holds an ordered list of text items.
type ArrayControl struct {
	*Basic

	minItems int
	maxItems int
	pattern  *regexp.Regexp

	mu    sync.RWMutex
	items []string
}

var (
	_ Control = (*ArrayControl)(nil)
	_ Binder  = (*ArrayControl)(nil)
)

// NewArray constructs a list control.
func NewArray(name string, options ...Option) *ArrayControl {
	cfg := newConfig(options)
	c := &ArrayControl{
		Basic:    newBasic(name, cfg),
		minItems: cfg.minItems,
		maxItems: cfg.maxItems,
		pattern:  cfg.pattern,
	}
	switch initial := cfg.initial.(type) {
	case []string:
		c.items = append([]string(nil), initial...)
	case []any:
		for _, item := range initial {
			c.items = append(c.items, fmt.Sprint(item))
		}
	}
	return c
}

// Kind implements Kinded.
func (c *ArrayControl) Kind() string { return KindArray }

// Items returns a copy of the current items.
func (c *ArrayControl) Items() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.items...)
}

// Value implements Control.
func (c *ArrayControl) Value() any {
	items := c.Items()
	if items == nil {
		return []string{}
	}
	return items
}

// SetItems replaces the current items.
func (c *ArrayControl) SetItems(items []string) {
	c.mu.Lock()
	c.items = append([]string(nil), items...)
	c.mu.Unlock()
}

// Append adds an item at the end.
func (c *ArrayControl) Append(item string) {
	c.mu.Lock()
	c.items = append(c.items, item)
	c.mu.Unlock()
}

// Bind implements Binder. Items are separated by newlines when the input
// contains any, by commas otherwise. Blank items are dropped.
func (c *ArrayControl) Bind(raw string) error {
	c.SetItems(splitItems(raw))
	return nil
}

// Validate implements Control.
func (c *ArrayControl) Validate(ctx context.Context) Outcome {
	items := c.Items()
	return c.check(ctx, items, len(items) == 0, func() error {
		if c.minItems > 0 && len(items) < c.minItems {
			return fmt.Errorf("%w: needs at least %d items", ErrOutOfRange, c.minItems)
		}
		if c.maxItems > 0 && len(items) > c.maxItems {
			return fmt.Errorf("%w: allows at most %d items", ErrOutOfRange, c.maxItems)
		}
		for idx, item := range items {
			if err := checkText(item, 0, 0, c.pattern); err != nil {
				return fmt.Errorf("item %d: %w", idx+1, err)
			}
		}
		return nil
	})
}

func splitItems(raw string) []string {
	sep := ","
	if strings.Contains(raw, "\n") {
		sep = "\n"
	}
	var out []string
	for _, part := range strings.Split(raw, sep) {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
