package controlbox

import (
	"fmt"
	"strings"
)

// State is the status of a box.
type State string

const (
	StateUnstarted State = "unstarted"
	StatePending   State = "pending"
	StateValidated State = "validated"
	StateErroneous State = "erroneous"
	StateSubmitted State = "submitted"
)

// settableStates lists the states SetState accepts; unstarted is only ever
// the initial state.
var settableStates = []State{StatePending, StateValidated, StateErroneous, StateSubmitted}

// Settable reports whether s can be assigned through SetState.
func (s State) Settable() bool {
	for _, candidate := range settableStates {
		if s == candidate {
			return true
		}
	}
	return false
}

func (s State) String() string { return string(s) }

// ParseState converts text into a settable State.
func ParseState(raw string) (State, error) {
	state := State(strings.ToLower(strings.TrimSpace(raw)))
	if !state.Settable() {
		return "", fmt.Errorf("%w %q", ErrInvalidState, raw)
	}
	return state, nil
}
