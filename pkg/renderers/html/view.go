package html

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-controlbox/pkg/control"
	"github.com/goliatone/go-controlbox/pkg/controlbox"
	"github.com/goliatone/go-controlbox/pkg/render"
)

// Partial keys. A theme can point any of them at another template through
// RendererConfig.Partials.
const (
	partialBox     = "controlbox.box"
	partialSection = "controlbox.section"
	partialError   = "controlbox.error"
	partialControl = "controlbox.controls."

	// StylesheetAsset is resolved through RendererConfig.AssetURL.
	StylesheetAsset = "controlbox.css"
)

var defaultTemplates = map[string]string{
	partialBox:     "templates/box.tmpl",
	partialSection: "templates/section.tmpl",
	partialError:   "templates/error.tmpl",
}

type labeled interface{ Label() string }
type helped interface{ Help() string }
type requirable interface{ Required() bool }

// view carries the per render state while walking the box tree.
type view struct {
	renderer *Renderer
	opts     render.RenderOptions
	formID   string
	partials map[string]string
}

func (v *view) template(key string) string {
	if candidate := strings.TrimSpace(v.partials[key]); candidate != "" {
		return candidate
	}
	if path, ok := defaultTemplates[key]; ok {
		return path
	}
	return "templates/controls/" + strings.TrimPrefix(key, partialControl) + ".tmpl"
}

func (v *view) boxData(box *controlbox.Box) (map[string]any, error) {
	body, err := v.children(box)
	if err != nil {
		return nil, err
	}

	state := box.State()
	msgs := render.LocalizeMessages(box, v.opts)

	method, override := render.FormMethod(v.opts.Method)
	hiddenFields := v.opts.HiddenFields
	if override != "" {
		hiddenFields = render.MergeHiddenFields(hiddenFields, render.Hidden(render.MethodOverrideField, override))
	}
	hidden := make([]any, 0, len(hiddenFields))
	for _, field := range render.SortedHiddenFields(hiddenFields) {
		hidden = append(hidden, map[string]any{"name": field.Name, "value": field.Value})
	}

	var banner string
	switch state {
	case controlbox.StatePending:
		banner = msgs.Pending
	case controlbox.StateValidated:
		if box.ShowValidatedMessage() {
			banner = msgs.Validated
		}
	case controlbox.StateSubmitted:
		if box.ShowSubmittedMessage() {
			banner = msgs.Submitted
		}
	}

	var errorBlock string
	if state == controlbox.StateErroneous {
		if display := box.ErrorDisplay(); display != nil {
			errorBlock, err = v.renderer.templates.RenderTemplate(v.template(partialError), map[string]any{
				"title":   msgs.ErrorTitle,
				"name":    display.Name(),
				"message": display.Message(),
				"stack":   display.Stack(),
				"dismiss": msgs.Dismiss,
			})
			if err != nil {
				return nil, fmt.Errorf("html renderer: render error block: %w", err)
			}
		}
	}

	return map[string]any{
		"form_id":         v.formID,
		"state":           state.String(),
		"pending":         state == controlbox.StatePending,
		"method":          method,
		"action":          v.opts.Action,
		"hidden":          hidden,
		"body":            body,
		"banner":          banner,
		"error":           errorBlock,
		"validate_button": msgs.ValidateButton,
		"submit_button":   msgs.SubmitButton,
		"theme":           themeData(v.opts.Theme),
	}, nil
}

// children renders the members of box that belong to the root form group.
// Nested boxes without any such control are skipped.
func (v *view) children(box *controlbox.Box) (string, error) {
	var b strings.Builder
	for _, child := range box.Children() {
		switch {
		case child.Control != nil:
			id := child.Control.FormID()
			if id == "" {
				id = box.FormID()
			}
			if id != v.formID {
				continue
			}
			fragment, err := v.control(child.Control)
			if err != nil {
				return "", err
			}
			b.WriteString(fragment)
		case child.Box != nil:
			body, err := v.children(child.Box)
			if err != nil {
				return "", err
			}
			if strings.TrimSpace(body) == "" {
				continue
			}
			section, err := v.renderer.templates.RenderTemplate(v.template(partialSection), map[string]any{
				"form_id": child.Box.FormID(),
				"body":    body,
			})
			if err != nil {
				return "", fmt.Errorf("html renderer: render section: %w", err)
			}
			b.WriteString(section)
		}
	}
	return b.String(), nil
}

func (v *view) control(c control.Control) (string, error) {
	kind := control.KindOf(c)
	data := map[string]any{
		"id":       v.formID + "-" + c.Name(),
		"name":     c.Name(),
		"label":    render.LocalizeLabel(v.opts, c.Name(), labelOf(c)),
		"help":     v.help(c),
		"required": requiredOf(c),
		"error":    errorOf(c),
	}

	switch typed := c.(type) {
	case *control.StringControl:
		data["value"] = typed.Text()
		data["placeholder"] = typed.Placeholder()
		data["multiline"] = typed.Multiline()
	case *control.NumberControl:
		data["value"] = ""
		if n, ok := typed.Number(); ok {
			data["value"] = formatFloat(n)
		}
		data["step"] = "any"
		if typed.Integer() {
			data["step"] = "1"
		}
		lo, hi := typed.Bounds()
		data["min"] = formatBound(lo)
		data["max"] = formatBound(hi)
	case *control.BooleanControl:
		data["checked"] = typed.Checked()
	case *control.ArrayControl:
		items := typed.Items()
		data["value"] = strings.Join(items, "\n")
		data["rows"] = max(3, len(items)+1)
	default:
		// Controls without a template of their own (functions) only take part
		// in validation.
		if kind == control.KindFunc {
			return "", nil
		}
		data["value"] = fmt.Sprint(c.Value())
	}

	out, err := v.renderer.templates.RenderTemplate(v.template(partialControl+kind), data)
	if err != nil {
		return "", fmt.Errorf("html renderer: render control %q: %w", c.Name(), err)
	}
	return out, nil
}

func (v *view) help(c control.Control) string {
	h, ok := c.(helped)
	if !ok {
		return ""
	}
	text := strings.TrimSpace(h.Help())
	if text == "" {
		return ""
	}
	return strings.TrimSpace(v.renderer.policy.Sanitize(text))
}

func labelOf(c control.Control) string {
	if l, ok := c.(labeled); ok {
		return l.Label()
	}
	return c.Name()
}

func requiredOf(c control.Control) bool {
	r, ok := c.(requirable)
	return ok && r.Required()
}

func errorOf(c control.Control) string {
	holder, ok := c.(control.ErrorHolder)
	if !ok || holder.Err() == nil {
		return ""
	}
	var fe *control.FieldError
	if errors.As(holder.Err(), &fe) {
		return fe.ErrorMessage()
	}
	return holder.Err().Error()
}

func formatFloat(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func formatBound(bound *float64) string {
	if bound == nil {
		return ""
	}
	return formatFloat(*bound)
}

func partials(cfg *theme.RendererConfig) map[string]string {
	if cfg == nil {
		return nil
	}
	return cfg.Partials
}

func themeData(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	data := map[string]any{
		"name":           cfg.Theme,
		"variant":        cfg.Variant,
		"css_vars_style": cssVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		data["stylesheet"] = cfg.AssetURL(StylesheetAsset)
	}
	return data
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(".controlbox {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
