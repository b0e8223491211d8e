package render_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-controlbox/pkg/control"
	"github.com/goliatone/go-controlbox/pkg/controlbox"
	"github.com/goliatone/go-controlbox/pkg/render"
)

func newProfileBox() *controlbox.Box {
	box := controlbox.New()
	box.MustAdd(
		control.NewString("name"),
		control.NewString("email"),
		control.NewArray("tags"),
	)
	return box
}

func TestMapErrorPayload_PathForms(t *testing.T) {
	box := newProfileBox()

	payload := map[string][]string{
		"/body/name":                 {"Name is required"},
		"body.email":                 {"Email invalid", " Email invalid "},
		"$.body.tags[0]":             {"Tags must be unique"},
		"non_field_errors":           {"Form level error"},
		"request/body/unknown-field": {"Should fall back to form errors"},
		"":                           {"Unscoped form error"},
		"name":                       {"   "},
	}

	mapped := render.MapErrorPayload(box, payload)

	wantFields := map[string][]string{
		"name":  {"Name is required"},
		"email": {"Email invalid"},
		"tags":  {"Tags must be unique"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Form level error", "Should fall back to form errors", "Unscoped form error"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyErrorPayload_RecordsErrors(t *testing.T) {
	box := newProfileBox()

	render.ApplyErrorPayload(box, map[string][]string{
		"email": {"already taken"},
		"form":  {"try again later"},
	})

	c, ok := box.Lookup("email")
	if !ok {
		t.Fatalf("expected email control")
	}
	holder, ok := c.(control.ErrorHolder)
	if !ok {
		t.Fatalf("expected error holder")
	}
	var fe *control.FieldError
	if !errors.As(holder.Err(), &fe) || fe.Field != "email" || fe.Message != "already taken" {
		t.Fatalf("unexpected control error %v", holder.Err())
	}

	if box.State() != controlbox.StateErroneous {
		t.Fatalf("expected erroneous state, got %s", box.State())
	}
	if box.Err() == nil || box.Err().Error() != "try again later" {
		t.Fatalf("unexpected box error %v", box.Err())
	}
}

func TestApplyErrorPayload_FieldOnlyLeavesStateAlone(t *testing.T) {
	box := newProfileBox()

	render.ApplyErrorPayload(box, map[string][]string{"name": {"bad"}})

	if box.State() != controlbox.StateUnstarted {
		t.Fatalf("expected unstarted state, got %s", box.State())
	}
	if box.Err() != nil {
		t.Fatalf("expected no box error, got %v", box.Err())
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged errors mismatch (-want +got):\n%s", diff)
	}
}
