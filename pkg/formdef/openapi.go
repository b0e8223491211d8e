package formdef

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-controlbox/pkg/control"
)

// FromOpenAPI derives a definition from the object schema registered as
// components.schemas[schemaName] in an OpenAPI 3 document. Scalar and array
// properties become controls, nested objects become sections. Properties are
// emitted sorted by name.
func FromOpenAPI(ctx context.Context, data []byte, schemaName string) (Definition, error) {
	if err := ctx.Err(); err != nil {
		return Definition{}, err
	}
	if len(data) == 0 {
		return Definition{}, errors.New("formdef: openapi document is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return Definition{}, fmt.Errorf("formdef: load openapi document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return Definition{}, fmt.Errorf("formdef: validate openapi document: %w", err)
	}
	if doc.Components == nil {
		return Definition{}, fmt.Errorf("formdef: schema %q not found: document has no components", schemaName)
	}

	ref, ok := doc.Components.Schemas[schemaName]
	if !ok || ref == nil || ref.Value == nil {
		return Definition{}, fmt.Errorf("formdef: schema %q not found", schemaName)
	}

	def, err := objectDefinition(ref.Value, "")
	if err != nil {
		return Definition{}, fmt.Errorf("formdef: schema %q: %w", schemaName, err)
	}
	def.FormID = schemaName
	return def, nil
}

func objectDefinition(schema *openapi3.Schema, prefix string) (Definition, error) {
	if !schema.Type.Is(openapi3.TypeObject) && len(schema.Properties) == 0 {
		return Definition{}, fmt.Errorf("expected an object schema, got %q", schemaType(schema))
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var def Definition
	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := ref.Value
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}

		if prop.Type.Is(openapi3.TypeObject) {
			section, err := objectDefinition(prop, path)
			if err != nil {
				return Definition{}, fmt.Errorf("%s: %w", path, err)
			}
			if len(section.Controls) > 0 || len(section.Sections) > 0 {
				def.Sections = append(def.Sections, section)
			}
			continue
		}

		spec, ok := propertySpec(path, prop, required[name])
		if !ok {
			continue
		}
		def.Controls = append(def.Controls, spec)
	}
	return def, nil
}

func propertySpec(name string, prop *openapi3.Schema, required bool) (control.Spec, bool) {
	spec := control.Spec{
		Name:     name,
		Label:    strings.TrimSpace(prop.Title),
		Help:     strings.TrimSpace(prop.Description),
		Required: required,
		Default:  prop.Default,
	}

	switch schemaType(prop) {
	case openapi3.TypeString:
		spec.Kind = control.KindString
		spec.MinLength = int(prop.MinLength)
		if prop.MaxLength != nil {
			spec.MaxLength = int(*prop.MaxLength)
		}
		spec.Pattern = prop.Pattern
		if spec.Pattern == "" && len(prop.Enum) > 0 {
			spec.Pattern = enumPattern(prop.Enum)
		}
		spec.Multiline = prop.Format == "textarea"
	case openapi3.TypeInteger, openapi3.TypeNumber:
		spec.Kind = control.KindNumber
		spec.Integer = prop.Type.Is(openapi3.TypeInteger)
		spec.Min = cloneFloat(prop.Min)
		spec.Max = cloneFloat(prop.Max)
	case openapi3.TypeBoolean:
		spec.Kind = control.KindBoolean
	case openapi3.TypeArray:
		spec.Kind = control.KindArray
		spec.MinItems = int(prop.MinItems)
		if prop.MaxItems != nil {
			spec.MaxItems = int(*prop.MaxItems)
		}
		if prop.Items != nil && prop.Items.Value != nil {
			spec.Pattern = prop.Items.Value.Pattern
		}
	default:
		return control.Spec{}, false
	}
	return spec, true
}

func schemaType(schema *openapi3.Schema) string {
	if schema == nil || schema.Type == nil {
		return ""
	}
	values := schema.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// enumPattern anchors the enum members into an alternation.
func enumPattern(values []any) string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		parts = append(parts, regexp.QuoteMeta(fmt.Sprint(value)))
	}
	return "^(" + strings.Join(parts, "|") + ")$"
}

func cloneFloat(value *float64) *float64 {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
