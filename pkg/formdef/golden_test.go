package formdef_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-controlbox/pkg/controlbox"
	"github.com/goliatone/go-controlbox/pkg/testsupport"
)

func TestBuild_InitialValueGolden(t *testing.T) {
	box := testsupport.MustBuildBox(t, filepath.Join("testdata", "contact.yaml"))
	golden := filepath.Join("testdata", "contact.value.golden.json")

	testsupport.WriteGolden(t, golden, box.Value())

	var want, got any
	if err := json.Unmarshal(testsupport.MustReadGolden(t, golden), &want); err != nil {
		t.Fatalf("decode golden: %v", err)
	}
	payload, err := json.Marshal(box.Value())
	if err != nil {
		t.Fatalf("marshal value: %v", err)
	}
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("decode value: %v", err)
	}
	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}

	// name is required
	res, err := box.Validate(testsupport.Context(t))
	if err == nil || res.State != controlbox.StateErroneous {
		t.Fatalf("expected erroneous result, got %+v (%v)", res, err)
	}
}
