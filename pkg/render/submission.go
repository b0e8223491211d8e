package render

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// MethodOverrideField is the hidden input carrying the real verb when a form
// has to be posted as POST.
const MethodOverrideField = "_method"

// ActionField names the submit buttons so handlers can tell a validate click
// from a submit click.
const ActionField = "_action"

// Actions posted through ActionField.
const (
	ActionValidate = "validate"
	ActionSubmit   = "submit"
)

// HiddenField represents a hidden form input emitted alongside the controls.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken constructs a hidden field carrying the provided token under the
// name the backend expects ("_csrf", "csrf_token"...).
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// MergeHiddenFields returns a copy of base with fields applied. Empty names
// are ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	if len(base) == 0 && len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		if field.Name == "" {
			continue
		}
		out[field.Name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields returns the fields sorted by name for deterministic
// output.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	result := make([]HiddenField, 0, len(fields))
	for name, value := range fields {
		if key := strings.TrimSpace(name); key != "" {
			result = append(result, HiddenField{Name: key, Value: value})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// FormMethod resolves the verb to put on the form element and, when the
// requested verb cannot be submitted by a browser, the override to send in
// MethodOverrideField.
func FormMethod(requested string) (method, override string) {
	verb := strings.ToUpper(strings.TrimSpace(requested))
	switch verb {
	case "", http.MethodPost:
		return http.MethodPost, ""
	case http.MethodGet:
		return http.MethodGet, ""
	default:
		return http.MethodPost, verb
	}
}
