package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-controlbox/pkg/controlbox"
)

// Translator resolves message keys for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides what to render when a key cannot be
// translated. params carries {"default": fallback}.
type MissingTranslationHandler func(locale, key string, params []any, err error) string

// ErrMissingTranslator is passed to MissingTranslationHandler when no
// translator was configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Message keys looked up through the Translator.
const (
	KeyPending        = "controlbox.pending"
	KeyValidated      = "controlbox.validated"
	KeySubmitted      = "controlbox.submitted"
	KeyValidateButton = "controlbox.button.validate"
	KeySubmitButton   = "controlbox.button.submit"
	KeyDismiss        = "controlbox.button.dismiss"
	KeyErrorTitle     = "controlbox.error.title"
)

// Built-in English text.
const (
	DefaultPendingMessage   = "One moment, please..."
	DefaultValidatedMessage = "All fields are valid."
	DefaultSubmittedMessage = "Data was successfully submitted."
	DefaultDismissLabel     = "Dismiss"
	DefaultErrorTitle       = "Error"
)

// Messages is the resolved set of user facing strings for one render.
type Messages struct {
	Pending        string
	Validated      string
	Submitted      string
	ValidateButton string
	SubmitButton   string
	Dismiss        string
	ErrorTitle     string
}

// LocalizeMessages resolves the banner and button strings for box. Button
// labels configured on the box are used as translation keys first and as the
// fallback text second, so plain labels keep working without a translator.
func LocalizeMessages(box *controlbox.Box, opts RenderOptions) Messages {
	onMissing := opts.OnMissing
	t := opts.Translator
	locale := opts.Locale

	msgs := Messages{
		Pending:    translate(locale, KeyPending, DefaultPendingMessage, t, onMissing),
		Validated:  translate(locale, KeyValidated, DefaultValidatedMessage, t, onMissing),
		Submitted:  translate(locale, KeySubmitted, DefaultSubmittedMessage, t, onMissing),
		Dismiss:    translate(locale, KeyDismiss, DefaultDismissLabel, t, onMissing),
		ErrorTitle: translate(locale, KeyErrorTitle, DefaultErrorTitle, t, onMissing),
	}
	if box == nil {
		return msgs
	}
	if label := box.ValidateButton(); label != "" {
		msgs.ValidateButton = translateLabel(locale, KeyValidateButton, label, t)
	}
	if label := box.SubmitButton(); label != "" {
		msgs.SubmitButton = translateLabel(locale, KeySubmitButton, label, t)
	}
	return msgs
}

// LocalizeLabel translates the label of a control. Keys have the form
// "controls.<name>.label"; the control's own label is the fallback.
func LocalizeLabel(opts RenderOptions, name, fallback string) string {
	if opts.Translator == nil {
		return fallback
	}
	key := "controls." + strings.TrimSpace(name) + ".label"
	result, err := opts.Translator.Translate(opts.Locale, key)
	if err != nil || strings.TrimSpace(result) == "" {
		return fallback
	}
	return result
}

// translateLabel tries the configured label as a key, then the generic key,
// then returns the label verbatim.
func translateLabel(locale, genericKey, label string, t Translator) string {
	if t == nil {
		return label
	}
	for _, key := range []string{label, genericKey} {
		if result, err := t.Translate(locale, key); err == nil && strings.TrimSpace(result) != "" {
			return result
		}
	}
	return label
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	if t == nil {
		if onMissing != nil {
			return onMissing(locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
		}
		if strings.TrimSpace(fallback) != "" {
			return fallback
		}
		return key
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}

	if onMissing != nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}
