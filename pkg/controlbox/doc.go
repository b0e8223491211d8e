// Package controlbox implements the form container: a Box owns field controls
// (and nested boxes), aggregates their values, validates them one after the
// other and tracks the outcome in a small state machine:
//
//	unstarted -> pending -> validated | erroneous
//	validated -> pending (Validate) | submitted (Submit)
//	any       -> erroneous on failure
//
// A box leaves erroneous only through a fresh Validate or Submit call. A
// Validate issued while a pass is pending returns PendingMessage instead of
// starting a second pass.
package controlbox
