package controlbox

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-controlbox/pkg/control"
)

func funcControl(name string, value any, result any) *control.Func {
	return control.NewFunc(name,
		func() any { return value },
		func(context.Context) any { return result },
	)
}

func TestValidate_EmptyBoxUsesFormValidator(t *testing.T) {
	var seen map[string]any
	box := New(WithOnValidate(func(_ context.Context, value map[string]any, _ *Box) error {
		seen = value
		return nil
	}))

	result, err := box.Validate(context.Background())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.State != StateValidated || box.State() != StateValidated {
		t.Fatalf("expected validated, got result=%s box=%s", result.State, box.State())
	}
	if seen == nil || len(seen) != 0 {
		t.Fatalf("expected empty aggregated value, got %#v", seen)
	}
}

func TestValidate_PendingGuard(t *testing.T) {
	box := New()
	if err := box.SetState(StatePending); err != nil {
		t.Fatalf("set state: %v", err)
	}

	result, err := box.Validate(context.Background())
	if err != nil {
		t.Fatalf("guarded validate should not fail: %v", err)
	}
	if !result.Guarded() || result.Message != PendingMessage {
		t.Fatalf("expected pending message, got %+v", result)
	}
	if box.State() != StatePending {
		t.Fatalf("state mutated: %s", box.State())
	}
	if box.Err() != nil {
		t.Fatalf("error mutated: %v", box.Err())
	}
}

func TestValidate_CollectsFieldErrorsInOrder(t *testing.T) {
	box := New()
	box.MustAdd(
		control.NewString("title", control.WithRequired(true)),
		funcControl("ok", 1, nil),
		funcControl("custom", 2, errors.New("custom failure")),
	)

	result, err := box.Validate(context.Background())
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if result.State != StateErroneous || box.State() != StateErroneous {
		t.Fatalf("expected erroneous, got %s", box.State())
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(verr.Errors))
	}
	if !errors.Is(err, control.ErrRequired) {
		t.Fatalf("expected wrapped ErrRequired")
	}

	want := "Cannot validate form due to 2 error(s) arised on validation:\n" +
		"1. title: value is required\n" +
		"2. Error: custom failure"
	if diff := cmp.Diff(want, box.Err().Error()); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_FalsyResultsPass(t *testing.T) {
	box := New()
	box.MustAdd(
		funcControl("a", nil, nil),
		funcControl("b", nil, 0),
		funcControl("c", nil, true),
		funcControl("d", nil, false),
		funcControl("e", nil, 0.0),
	)
	if _, err := box.Validate(context.Background()); err != nil {
		t.Fatalf("expected falsy results to pass: %v", err)
	}
	if box.Err() != nil {
		t.Fatalf("unexpected error recorded: %v", box.Err())
	}
}

func TestValidate_UnknownObjects(t *testing.T) {
	cyclic := map[string]any{"name": "loop"}
	cyclic["self"] = cyclic

	box := New()
	box.MustAdd(
		funcControl("a", nil, "surprise"),
		funcControl("b", nil, cyclic),
	)

	_, err := box.Validate(context.Background())
	var uerr *UnknownObjectsError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UnknownObjectsError, got %v", err)
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "Cannot validate form due to 2 unknown object(s) returned on validation:\n1. \"surprise\"\n2. {") {
		t.Fatalf("unexpected summary:\n%s", msg)
	}
	if !strings.Contains(msg, `"self": "[Circular]"`) {
		t.Fatalf("expected circular marker in summary:\n%s", msg)
	}
	if box.State() != StateErroneous {
		t.Fatalf("expected erroneous, got %s", box.State())
	}
}

func TestValidate_ErrorsWinOverUnknownObjects(t *testing.T) {
	box := New()
	box.MustAdd(
		funcControl("a", nil, "surprise"),
		funcControl("b", nil, errors.New("bad")),
	)
	_, err := box.Validate(context.Background())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError to take precedence, got %T", err)
	}
}

func TestValidate_FormValidatorFailure(t *testing.T) {
	sentinel := errors.New("form rejected")
	box := New(WithOnValidate(func(context.Context, map[string]any, *Box) error {
		return sentinel
	}))
	_, err := box.Validate(context.Background())
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected form validator error, got %v", err)
	}
	if box.State() != StateErroneous || !errors.Is(box.Err(), sentinel) {
		t.Fatalf("expected recorded error, state=%s err=%v", box.State(), box.Err())
	}
}

func TestValidate_RecoversFromErroneous(t *testing.T) {
	title := control.NewString("title", control.WithRequired(true))
	box := New()
	box.MustAdd(title)

	if _, err := box.Validate(context.Background()); err == nil {
		t.Fatalf("expected failure")
	}
	title.SetValue("hello")
	if _, err := box.Validate(context.Background()); err != nil {
		t.Fatalf("expected success: %v", err)
	}
	if box.State() != StateValidated || box.Err() != nil {
		t.Fatalf("expected clean validated state, got %s / %v", box.State(), box.Err())
	}
}

func TestValidate_SuppressedPropagation(t *testing.T) {
	box := New(WithPropagation(false))
	box.MustAdd(control.NewString("title", control.WithRequired(true)))

	result, err := box.Validate(context.Background())
	if err != nil {
		t.Fatalf("expected no propagated error, got %v", err)
	}
	if result.State != StateErroneous || box.Err() == nil {
		t.Fatalf("expected error recorded on box")
	}
}

func TestValidate_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	box := New()
	box.MustAdd(control.NewString("title"))
	_, err := box.Validate(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if box.State() != StateErroneous {
		t.Fatalf("expected erroneous, got %s", box.State())
	}
}

func TestValidate_ConcurrentCallsAreGuarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	slow := control.NewFunc("slow", nil, func(context.Context) any {
		close(started)
		<-release
		return nil
	})
	box := New()
	box.MustAdd(slow)

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = box.Validate(context.Background())
	}()

	<-started
	result, err := box.Validate(context.Background())
	if err != nil || !result.Guarded() {
		t.Fatalf("expected guarded result, got %+v (%v)", result, err)
	}
	close(release)
	wg.Wait()

	if firstErr != nil {
		t.Fatalf("first validation failed: %v", firstErr)
	}
	if box.State() != StateValidated {
		t.Fatalf("expected validated, got %s", box.State())
	}
}

func TestSubmit(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var submitted map[string]any
		title := control.NewString("title", control.WithInitial("Hello"))
		box := New(WithOnSubmit(func(_ context.Context, value map[string]any, _ *Box) error {
			submitted = value
			return nil
		}))
		box.MustAdd(title)

		result, err := box.Submit(context.Background())
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if result.State != StateSubmitted || box.State() != StateSubmitted {
			t.Fatalf("expected submitted, got %s", box.State())
		}
		if diff := cmp.Diff(map[string]any{"title": "Hello"}, submitted); diff != "" {
			t.Fatalf("submitted value mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("invalid form skips callback", func(t *testing.T) {
		called := false
		box := New(WithOnSubmit(func(context.Context, map[string]any, *Box) error {
			called = true
			return nil
		}))
		box.MustAdd(control.NewString("title", control.WithRequired(true)))

		if _, err := box.Submit(context.Background()); err == nil {
			t.Fatalf("expected validation error")
		}
		if called {
			t.Fatalf("submission callback must not run")
		}
		if box.State() != StateErroneous {
			t.Fatalf("expected erroneous, got %s", box.State())
		}
	})

	t.Run("suppressed failure skips callback", func(t *testing.T) {
		called := false
		box := New(WithPropagation(false), WithOnSubmit(func(context.Context, map[string]any, *Box) error {
			called = true
			return nil
		}))
		box.MustAdd(control.NewString("title", control.WithRequired(true)))

		if _, err := box.Submit(context.Background()); err != nil {
			t.Fatalf("expected suppressed error, got %v", err)
		}
		if called {
			t.Fatalf("submission callback must not run")
		}
	})

	t.Run("callback failure", func(t *testing.T) {
		sentinel := errors.New("backend down")
		box := New(WithOnSubmit(func(context.Context, map[string]any, *Box) error {
			return sentinel
		}))
		if _, err := box.Submit(context.Background()); !errors.Is(err, sentinel) {
			t.Fatalf("expected callback error, got %v", err)
		}
		if box.State() != StateErroneous {
			t.Fatalf("expected erroneous, got %s", box.State())
		}
	})

	t.Run("pending guard skips callback", func(t *testing.T) {
		called := false
		box := New(WithOnSubmit(func(context.Context, map[string]any, *Box) error {
			called = true
			return nil
		}))
		if err := box.SetState(StatePending); err != nil {
			t.Fatalf("set state: %v", err)
		}
		result, err := box.Submit(context.Background())
		if err != nil || !result.Guarded() {
			t.Fatalf("expected guarded submit, got %+v (%v)", result, err)
		}
		if called {
			t.Fatalf("submission callback must not run while pending")
		}
	})
}

func TestValue_DuplicateNamesLaterWins(t *testing.T) {
	box := New()
	box.MustAdd(
		control.NewString("title", control.WithInitial("first")),
		control.NewNumber("count", control.WithInitial(2)),
		control.NewString("title", control.WithInitial("second")),
	)
	want := map[string]any{"title": "second", "count": 2.0}
	if diff := cmp.Diff(want, box.Value()); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}

	found, ok := box.Lookup("title")
	if !ok || found.Value() != "second" {
		t.Fatalf("lookup should return the last control, got %v", found)
	}
}

func TestValue_NotCached(t *testing.T) {
	title := control.NewString("title")
	box := New()
	box.MustAdd(title)

	first := box.Value()
	title.SetValue("changed")
	if box.Value()["title"] != "changed" {
		t.Fatalf("value should be recomputed")
	}
	if first["title"] != "" {
		t.Fatalf("earlier value mutated: %v", first)
	}
}

func TestControls_FormGroups(t *testing.T) {
	parent := New(WithFormID("signup"))
	child := New(WithFormID("signup"))
	other := New(WithFormID("newsletter"))

	parent.MustAdd(control.NewString("email"))
	child.MustAdd(control.NewString("password"))
	other.MustAdd(
		control.NewBoolean("subscribe"),
		control.NewString("referrer", control.WithFormID("signup")),
	)
	parent.MustAdd(control.NewString("stray", control.WithFormID("elsewhere")))

	if err := parent.Nest(child); err != nil {
		t.Fatalf("nest child: %v", err)
	}
	if err := parent.Nest(other); err != nil {
		t.Fatalf("nest other: %v", err)
	}

	var names []string
	for _, c := range parent.Controls() {
		names = append(names, c.Name())
	}
	if diff := cmp.Diff([]string{"email", "password", "referrer"}, names); diff != "" {
		t.Fatalf("controls mismatch (-want +got):\n%s", diff)
	}

	names = names[:0]
	for _, c := range other.Controls() {
		names = append(names, c.Name())
	}
	if diff := cmp.Diff([]string{"subscribe"}, names); diff != "" {
		t.Fatalf("nested group mismatch (-want +got):\n%s", diff)
	}
}

func TestNest_RejectsCycles(t *testing.T) {
	a := New()
	b := New()
	if err := a.Nest(b); err != nil {
		t.Fatalf("nest: %v", err)
	}
	if err := b.Nest(a); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected cycle rejection, got %v", err)
	}
	if err := a.Nest(a); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected self nesting rejection, got %v", err)
	}
	if err := a.Nest(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected nil rejection, got %v", err)
	}
}

func TestAdd_RejectsInvalidControls(t *testing.T) {
	box := New()
	if err := box.Add(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected nil control rejection, got %v", err)
	}
	if err := box.Add(control.NewString(" ")); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected unnamed control rejection, got %v", err)
	}
	if len(box.Controls()) != 0 {
		t.Fatalf("rejected controls must not be registered")
	}
}

func TestSetState(t *testing.T) {
	box := New()
	if box.State() != StateUnstarted {
		t.Fatalf("expected unstarted, got %s", box.State())
	}

	for _, state := range []State{"bogus", StateUnstarted, ""} {
		err := box.SetState(state)
		if !errors.Is(err, ErrInvalidState) || !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("set %q: expected invalid argument, got %v", state, err)
		}
		if box.State() != StateUnstarted {
			t.Fatalf("set %q mutated state to %s", state, box.State())
		}
	}

	if err := box.SetState(StateSubmitted); err != nil {
		t.Fatalf("set submitted: %v", err)
	}
	if box.State() != StateSubmitted {
		t.Fatalf("expected submitted, got %s", box.State())
	}
}

func TestSetState_ErrorOnlyWhileErroneous(t *testing.T) {
	box := New()
	box.SetError(errors.New("boom"))

	if err := box.SetState(StateErroneous); err != nil {
		t.Fatalf("set erroneous: %v", err)
	}
	if box.Err() == nil {
		t.Fatalf("erroneous state must keep the error")
	}

	if err := box.SetState(StateValidated); err != nil {
		t.Fatalf("set validated: %v", err)
	}
	if box.Err() != nil || box.ErrorDisplay() != nil {
		t.Fatalf("expected error cleared in %s, got %v", box.State(), box.Err())
	}
}

func TestParseState(t *testing.T) {
	state, err := ParseState(" Validated ")
	if err != nil || state != StateValidated {
		t.Fatalf("parse: %v %v", state, err)
	}
	if _, err := ParseState("unstarted"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("unstarted must not be settable, got %v", err)
	}
}

func TestErrorDisplay(t *testing.T) {
	box := New()
	if box.ErrorDisplay() != nil {
		t.Fatalf("expected no display without an error")
	}
	box.MustAdd(control.NewString("title", control.WithRequired(true)))
	_, _ = box.Validate(context.Background())

	display := box.ErrorDisplay()
	if display == nil {
		t.Fatalf("expected display")
	}
	if display.Name() != "ValidationError" {
		t.Fatalf("name: %q", display.Name())
	}
	if !strings.Contains(display.Message(), "1. title: value is required") {
		t.Fatalf("message: %q", display.Message())
	}
	if !strings.Contains(display.Stack(), "goroutine") {
		t.Fatalf("expected captured stack, got %q", display.Stack())
	}

	if !display.Dismiss() {
		t.Fatalf("expected dismiss to reach the box")
	}
	if box.Err() != nil {
		t.Fatalf("dismiss should clear the box error")
	}
	if box.State() != StateErroneous {
		t.Fatalf("dismiss should not change state, got %s", box.State())
	}
}

func TestErrorDisplay_WithoutOwner(t *testing.T) {
	display := NewErrorDisplay(errors.New("plain"), nil)
	if display.Name() != "Error" || display.Message() != "plain" {
		t.Fatalf("unexpected display: %q %q", display.Name(), display.Message())
	}
	if display.Dismiss() {
		t.Fatalf("dismiss without owner should report false")
	}
}
