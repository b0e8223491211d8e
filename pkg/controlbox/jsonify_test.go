package controlbox

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type node struct {
	Name   string `json:"name"`
	Hidden string `json:"-"`
	Next   *node  `json:"next,omitempty"`
	secret string
}

func TestJsonify_Scalars(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{in: "text", want: `"text"`},
		{in: 42, want: `42`},
		{in: nil, want: `null`},
		{in: []int{1, 2}, want: "[\n  1,\n  2\n]"},
		{in: errors.New("boom"), want: `"boom"`},
	}
	for _, tc := range cases {
		if got := Jsonify(tc.in); got != tc.want {
			t.Fatalf("jsonify %v: want %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestJsonify_StructFieldOrder(t *testing.T) {
	got := Jsonify(node{Name: "a", Hidden: "x", secret: "y"})
	want := "{\n  \"name\": \"a\",\n  \"next\": null\n}"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("struct mismatch (-want +got):\n%s", diff)
	}
}

func TestJsonify_CircularPointer(t *testing.T) {
	n := &node{Name: "loop"}
	n.Next = n

	got := Jsonify(n)
	want := "{\n  \"name\": \"loop\",\n  \"next\": \"[Circular]\"\n}"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("circular mismatch (-want +got):\n%s", diff)
	}
}

func TestJsonify_CircularSlice(t *testing.T) {
	items := make([]any, 2)
	items[0] = "a"
	items[1] = items

	got := Jsonify(items)
	if !strings.Contains(got, `"[Circular]"`) {
		t.Fatalf("expected circular marker, got %s", got)
	}
}

func TestJsonify_SharedReferenceIsNotCircular(t *testing.T) {
	shared := map[string]any{"v": 1}
	got := Jsonify(map[string]any{"a": shared, "b": shared})
	if strings.Contains(got, CircularMarker) {
		t.Fatalf("siblings sharing a reference are not circular: %s", got)
	}
}
