package control

import (
	"context"
	"sync"
)

// Basic bundles the behaviour every built-in control shares: identity,
// labelling, the required flag, custom validators and the error recorded by
// the last validation.
type Basic struct {
	mu         sync.RWMutex
	name       string
	formID     string
	label      string
	help       string
	required   bool
	validators []Validator
	err        error
}

func newBasic(name string, cfg config) *Basic {
	return &Basic{
		name:       name,
		formID:     cfg.formID,
		label:      cfg.label,
		help:       cfg.help,
		required:   cfg.required,
		validators: append([]Validator(nil), cfg.validators...),
	}
}

// Name returns the key used in the aggregated form value.
func (b *Basic) Name() string { return b.name }

// FormID returns the form group id, empty when the control adopts its
// owner's group.
func (b *Basic) FormID() string { return b.formID }

// Label returns the label, falling back to the name.
func (b *Basic) Label() string {
	if b.label != "" {
		return b.label
	}
	return b.name
}

// Help returns the help text.
func (b *Basic) Help() string { return b.help }

// Required reports whether an empty value fails validation.
func (b *Basic) Required() bool { return b.required }

// Err returns the error recorded by the last validation or bind.
func (b *Basic) Err() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.err
}

// SetErr records err as the control's own error.
func (b *Basic) SetErr(err error) {
	b.mu.Lock()
	b.err = err
	b.mu.Unlock()
}

// ClearError drops the recorded error.
func (b *Basic) ClearError() {
	b.SetErr(nil)
}

// check runs the required check, the kind specific check and the custom
// validators in that order, recording the first failure.
func (b *Basic) check(ctx context.Context, value any, empty bool, kindCheck func() error) Outcome {
	if empty {
		if b.required {
			return b.fail(ErrRequired)
		}
		b.ClearError()
		return Pass()
	}
	if kindCheck != nil {
		if err := kindCheck(); err != nil {
			return b.fail(err)
		}
	}
	for _, validate := range b.validators {
		if err := ctx.Err(); err != nil {
			return b.fail(err)
		}
		if err := validate(ctx, value); err != nil {
			return b.fail(err)
		}
	}
	b.ClearError()
	return Pass()
}

func (b *Basic) fail(err error) Outcome {
	fe := fieldError(b.name, err)
	b.SetErr(fe)
	return Fail(fe)
}
