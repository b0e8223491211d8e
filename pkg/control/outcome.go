package control

import "reflect"

// OutcomeKind tags the result of a control validation.
type OutcomeKind int

const (
	// OutcomePass means the control has no issue.
	OutcomePass OutcomeKind = iota
	// OutcomeFail carries a validation error.
	OutcomeFail
	// OutcomeUnexpected carries a value that is neither an error nor a
	// recognised "no issue" marker.
	OutcomeUnexpected
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomePass:
		return "pass"
	case OutcomeFail:
		return "fail"
	case OutcomeUnexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of Control.Validate.
type Outcome struct {
	kind  OutcomeKind
	err   error
	value any
}

// Pass reports a control without issues.
func Pass() Outcome {
	return Outcome{kind: OutcomePass}
}

// Fail reports a validation error. A nil error is a pass.
func Fail(err error) Outcome {
	if err == nil {
		return Pass()
	}
	return Outcome{kind: OutcomeFail, err: err}
}

// Unexpected reports a value the validator returned that carries no verdict.
func Unexpected(value any) Outcome {
	return Outcome{kind: OutcomeUnexpected, value: value}
}

// Kind returns the outcome tag.
func (o Outcome) Kind() OutcomeKind { return o.kind }

// Err returns the validation error for failed outcomes.
func (o Outcome) Err() error { return o.err }

// Value returns the payload of an unexpected outcome.
func (o Outcome) Value() any { return o.value }

// OK reports whether the outcome is a pass.
func (o Outcome) OK() bool { return o.kind == OutcomePass }

// Classify maps a loosely typed validator result onto an Outcome. nil, true,
// false and numeric zero count as a pass; an error fails; anything else is
// unexpected. Validators written against Outcome directly should prefer Pass
// and Fail over relying on these coincidences.
func Classify(result any) Outcome {
	switch v := result.(type) {
	case nil:
		return Pass()
	case Outcome:
		return v
	case error:
		return Fail(v)
	case bool:
		return Pass()
	}
	if isNumericZero(result) {
		return Pass()
	}
	return Unexpected(result)
}

func isNumericZero(value any) bool {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	default:
		return false
	}
}
