package server

import (
	"go.uber.org/zap"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-controlbox/pkg/control"
	"github.com/goliatone/go-controlbox/pkg/controlbox"
	"github.com/goliatone/go-controlbox/pkg/render"
)

// Option configures a Handler.
type Option func(*Handler)

// WithRenderer sets the renderer used for non JSON responses.
func WithRenderer(renderer render.Renderer) Option {
	return func(h *Handler) {
		h.renderer = renderer
	}
}

// WithRegistry sets the control registry definitions are built with.
func WithRegistry(registry *control.Registry) Option {
	return func(h *Handler) {
		h.registry = registry
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithOnValidate sets the form level validation callback of every box.
func WithOnValidate(fn controlbox.Callback) Option {
	return func(h *Handler) {
		h.onValidate = fn
	}
}

// WithOnSubmit sets the submission callback of every box.
func WithOnSubmit(fn controlbox.Callback) Option {
	return func(h *Handler) {
		h.onSubmit = fn
	}
}

// WithGuard rejects posts before they are bound.
func WithGuard(guard Guard) Option {
	return func(h *Handler) {
		h.guard = guard
	}
}

// WithTokenSource adds a per request hidden field to rendered forms.
func WithTokenSource(source TokenSource) Option {
	return func(h *Handler) {
		h.token = source
	}
}

// WithHiddenFields adds static hidden fields to rendered forms.
func WithHiddenFields(fields ...render.HiddenField) Option {
	return func(h *Handler) {
		h.hidden = render.MergeHiddenFields(h.hidden, fields...)
	}
}

// WithLocale sets the locale and translator used when rendering.
func WithLocale(locale string, translator render.Translator) Option {
	return func(h *Handler) {
		h.options.Locale = locale
		h.options.Translator = translator
	}
}

// WithTheme sets the theme configuration passed to the renderer.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(h *Handler) {
		h.options.Theme = cfg
	}
}

// WithAction overrides the form action. It defaults to the request path.
func WithAction(action string) Option {
	return func(h *Handler) {
		h.options.Action = action
	}
}
