package control

import "context"

// Func adapts plain functions into a Control. The validate function may
// return anything; its result is passed through Classify, which keeps
// loosely typed validators usable while still producing an Outcome.
type Func struct {
	*Basic

	value    func() any
	validate func(ctx context.Context) any
}

var _ Control = (*Func)(nil)

// NewFunc constructs a function backed control. Either function may be nil.
func NewFunc(name string, value func() any, validate func(ctx context.Context) any, options ...Option) *Func {
	return &Func{
		Basic:    newBasic(name, newConfig(options)),
		value:    value,
		validate: validate,
	}
}

// Kind implements Kinded.
func (f *Func) Kind() string { return KindFunc }

// Value implements Control.
func (f *Func) Value() any {
	if f.value == nil {
		return nil
	}
	return f.value()
}

// Validate implements Control.
func (f *Func) Validate(ctx context.Context) Outcome {
	if f.validate == nil {
		return Pass()
	}
	outcome := Classify(f.validate(ctx))
	if outcome.Kind() == OutcomeFail {
		f.SetErr(outcome.Err())
	} else {
		f.ClearError()
	}
	return outcome
}
