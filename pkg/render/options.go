package render

import (
	theme "github.com/goliatone/go-theme"
)

// RenderOptions describe per-request data renderers use to customise their
// output without touching the box.
type RenderOptions struct {
	// Action is the URL the form posts to. Empty posts back to the current URL.
	Action string
	// Method overrides the HTTP method (default POST). Verbs browsers cannot
	// submit (PUT/PATCH/DELETE) are sent as POST plus a hidden _method input.
	Method string
	// HiddenFields are emitted as hidden inputs, sorted by name.
	HiddenFields map[string]string
	// Locale and Translator localise banners, buttons and control labels.
	// Missing translations fall back to the built-in English text unless
	// OnMissing says otherwise.
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
	// Theme carries go-theme partial overrides, tokens and CSS variables.
	Theme *theme.RendererConfig
}
