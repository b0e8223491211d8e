package formdef

import (
	"fmt"

	"github.com/goliatone/go-controlbox/pkg/control"
	"github.com/goliatone/go-controlbox/pkg/controlbox"
)

// Build constructs a box from def. Controls are created through registry
// (the default registry when nil). Sections become nested boxes that inherit
// the parent's form id unless they set their own; options apply to the root
// box only.
func Build(def Definition, registry *control.Registry, options ...controlbox.Option) (*controlbox.Box, error) {
	if registry == nil {
		registry = control.NewDefaultRegistry()
	}
	return build(def, registry, "", options)
}

func build(def Definition, registry *control.Registry, parentFormID string, extra []controlbox.Option) (*controlbox.Box, error) {
	formID := def.FormID
	if formID == "" {
		formID = parentFormID
	}

	var opts []controlbox.Option
	if formID != "" {
		opts = append(opts, controlbox.WithFormID(formID))
	}
	if def.ValidateButton != "" {
		opts = append(opts, controlbox.WithValidateButton(def.ValidateButton))
	}
	if def.SubmitButton != "" {
		opts = append(opts, controlbox.WithSubmitButton(def.SubmitButton))
	}
	if def.ShowValidatedMessage != nil {
		opts = append(opts, controlbox.WithValidatedMessage(*def.ShowValidatedMessage))
	}
	if def.ShowSubmittedMessage != nil {
		opts = append(opts, controlbox.WithSubmittedMessage(*def.ShowSubmittedMessage))
	}
	opts = append(opts, extra...)

	box := controlbox.New(opts...)
	childFormID := box.FormID()

	for _, spec := range def.Controls {
		if spec.FormID == "" {
			spec.FormID = childFormID
		}
		c, err := registry.Build(spec)
		if err != nil {
			return nil, fmt.Errorf("formdef: %w", err)
		}
		if err := box.Add(c); err != nil {
			return nil, fmt.Errorf("formdef: add %s: %w", spec.Name, err)
		}
	}

	for i, section := range def.Sections {
		child, err := build(section, registry, childFormID, nil)
		if err != nil {
			return nil, fmt.Errorf("formdef: section %d: %w", i, err)
		}
		if err := box.Nest(child); err != nil {
			return nil, fmt.Errorf("formdef: nest section %d: %w", i, err)
		}
	}

	return box, nil
}
