package control

import "context"

// Built-in control kinds.
const (
	KindString  = "string"
	KindNumber  = "number"
	KindBoolean = "boolean"
	KindArray   = "array"
	KindFunc    = "func"
)

// Control is the contract a box relies on. Name keys the control's value in
// the aggregated mapping, FormID ties it to a form group and Validate reports
// the control's own verdict on its current value.
type Control interface {
	Name() string
	FormID() string
	Value() any
	Validate(ctx context.Context) Outcome
}

// Binder is implemented by controls that accept textual input, such as HTTP
// form posts or terminal prompts.
type Binder interface {
	Bind(raw string) error
}

// Kinded reports the registry kind of a control.
type Kinded interface {
	Kind() string
}

// ErrorHolder exposes the error recorded by a control's last validation so
// renderers can show it inline.
type ErrorHolder interface {
	Err() error
	ClearError()
}

// KindOf returns the kind of c, or KindFunc when it does not report one.
func KindOf(c Control) string {
	if k, ok := c.(Kinded); ok {
		return k.Kind()
	}
	return KindFunc
}
