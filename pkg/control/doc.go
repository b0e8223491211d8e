// Package control defines the field controls a controlbox.Box owns: the
// capability contract (Control), the explicit validation outcome (Outcome),
// the shared behaviour bundle every built-in control embeds (Basic) and the
// concrete string, number, boolean and array kinds.
//
// Controls are registered explicitly. A Registry maps kind names to factories
// and is passed to whatever builds boxes from declarative definitions; there
// is no process-wide registration.
package control
