package formdef_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-controlbox/pkg/control"
	"github.com/goliatone/go-controlbox/pkg/formdef"
)

func TestLoadFile_YAML(t *testing.T) {
	def, err := formdef.LoadFile(filepath.Join("testdata", "contact.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if def.FormID != "contact" || def.ValidateButton != "Check" || def.SubmitButton != "Send" {
		t.Fatalf("unexpected settings %+v", def)
	}
	if def.ShowValidatedMessage == nil || *def.ShowValidatedMessage {
		t.Fatalf("expected showValidatedMessage=false, got %v", def.ShowValidatedMessage)
	}
	if def.ShowSubmittedMessage != nil {
		t.Fatalf("expected showSubmittedMessage unset")
	}

	var names []string
	for _, spec := range def.Controls {
		names = append(names, spec.Name)
	}
	if diff := cmp.Diff([]string{"name", "email", "age"}, names); diff != "" {
		t.Fatalf("control names mismatch (-want +got):\n%s", diff)
	}
	if len(def.Sections) != 1 || len(def.Sections[0].Controls) != 2 {
		t.Fatalf("unexpected sections %+v", def.Sections)
	}
	age := def.Controls[2]
	if age.Min == nil || *age.Min != 18 || age.Max == nil || *age.Max != 120 || !age.Integer {
		t.Fatalf("unexpected age spec %+v", age)
	}
}

func TestLoadFile_JSON(t *testing.T) {
	def, err := formdef.LoadFile(filepath.Join("testdata", "survey.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if def.FormID != "survey" || len(def.Controls) != 2 {
		t.Fatalf("unexpected definition %+v", def)
	}
	if !def.Controls[0].Multiline {
		t.Fatalf("expected multiline feedback control")
	}
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":        "   ",
		"invalid yaml": "controls: [",
		"missing name": "controls:\n  - kind: string\n",
		"empty section": "controls:\n  - name: a\nsections:\n  - formId: x\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := formdef.Parse([]byte(input), "inline.yaml"); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParse_JSONDetectedByContent(t *testing.T) {
	def, err := formdef.Parse([]byte(`{"formId":"inline","controls":[{"name":"a"}]}`), "inline")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if def.FormID != "inline" || def.Controls[0].Name != "a" {
		t.Fatalf("unexpected definition %+v", def)
	}
}

func TestLoadFS(t *testing.T) {
	contact, err := os.ReadFile(filepath.Join("testdata", "contact.yaml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	fsys := fstest.MapFS{
		"forms/contact.yaml": {Data: contact},
		"forms/extra.yml":    {Data: []byte("controls:\n  - name: note\n")},
		"forms/README.md":    {Data: []byte("ignored")},
	}

	defs, err := formdef.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(defs))
	}
	if defs["extra"].Controls[0].Name != "note" {
		t.Fatalf("unexpected extra definition %+v", defs["extra"])
	}

	fsys["other/contact.json"] = &fstest.MapFile{Data: []byte(`{"controls":[{"name":"x"}]}`)}
	if _, err := formdef.LoadFS(fsys); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate definition error, got %v", err)
	}
}

func TestLoadFS_Nil(t *testing.T) {
	defs, err := formdef.LoadFS(nil)
	if err != nil || len(defs) != 0 {
		t.Fatalf("expected empty result, got %v %v", defs, err)
	}
}

func TestDefinition_DefaultKindIsString(t *testing.T) {
	def, err := formdef.Parse([]byte("controls:\n  - name: note\n"), "inline.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	box, err := formdef.Build(def, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	c, ok := box.Lookup("note")
	if !ok {
		t.Fatalf("expected note control")
	}
	if control.KindOf(c) != control.KindString {
		t.Fatalf("expected string control, got %s", control.KindOf(c))
	}
}
