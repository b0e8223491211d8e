package formdef

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-controlbox/pkg/control"
)

// Definition describes a box: its settings, its controls and the boxes
// nested inside it.
type Definition struct {
	FormID               string         `json:"formId,omitempty" yaml:"formId,omitempty"`
	ValidateButton       string         `json:"validateButton,omitempty" yaml:"validateButton,omitempty"`
	SubmitButton         string         `json:"submitButton,omitempty" yaml:"submitButton,omitempty"`
	ShowValidatedMessage *bool          `json:"showValidatedMessage,omitempty" yaml:"showValidatedMessage,omitempty"`
	ShowSubmittedMessage *bool          `json:"showSubmittedMessage,omitempty" yaml:"showSubmittedMessage,omitempty"`
	Controls             []control.Spec `json:"controls,omitempty" yaml:"controls,omitempty"`
	Sections             []Definition   `json:"sections,omitempty" yaml:"sections,omitempty"`
}

// Parse decodes a JSON or YAML definition. source is only used in error
// messages.
func Parse(data []byte, source string) (Definition, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Definition{}, fmt.Errorf("formdef: %s is empty", source)
	}

	var def Definition
	if isJSON(source, data) {
		if err := json.Unmarshal(data, &def); err != nil {
			return Definition{}, fmt.Errorf("formdef: parse %s: %w", source, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &def); err != nil {
			return Definition{}, fmt.Errorf("formdef: parse %s: %w", source, err)
		}
	}

	if err := def.Check(); err != nil {
		return Definition{}, fmt.Errorf("formdef: %s: %w", source, err)
	}
	return def, nil
}

// LoadFile reads and parses a definition file.
func LoadFile(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("formdef: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS parses every .json/.yaml/.yml file in fsys. Definitions are keyed by
// file name without extension; two files sharing a stem are an error.
func LoadFS(fsys fs.FS) (map[string]Definition, error) {
	defs := make(map[string]Definition)
	if fsys == nil {
		return defs, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("formdef: read %s: %w", path, err)
		}
		def, err := Parse(data, path)
		if err != nil {
			return err
		}

		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if _, exists := defs[name]; exists {
			return fmt.Errorf("formdef: duplicate definition %q (file %s)", name, path)
		}
		defs[name] = def
		return nil
	})
	if err != nil {
		return nil, err
	}
	return defs, nil
}

// Check reports structural problems: controls without a name and sections
// that are empty.
func (d Definition) Check() error {
	for i, spec := range d.Controls {
		if strings.TrimSpace(spec.Name) == "" {
			return fmt.Errorf("control %d has no name", i)
		}
	}
	for i, section := range d.Sections {
		if len(section.Controls) == 0 && len(section.Sections) == 0 {
			return fmt.Errorf("section %d is empty", i)
		}
		if err := section.Check(); err != nil {
			return fmt.Errorf("section %d: %w", i, err)
		}
	}
	return nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func isJSON(source string, data []byte) bool {
	if strings.EqualFold(filepath.Ext(source), ".json") {
		return true
	}
	trimmed := strings.TrimSpace(string(data))
	return strings.HasPrefix(trimmed, "{")
}
