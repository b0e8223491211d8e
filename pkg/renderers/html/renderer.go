// Package html renders a box as a server side HTML form using pongo2
// templates.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-controlbox/pkg/controlbox"
	"github.com/goliatone/go-controlbox/pkg/render"
	rendertemplate "github.com/goliatone/go-controlbox/pkg/render/template"
	"github.com/goliatone/go-controlbox/pkg/render/template/pongo"
)

// Name is the registry name of the renderer.
const Name = "html"

type Option func(*config)

type config struct {
	templateFS       []fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	policy           *bluemonday.Policy
}

// WithTemplatesFS layers an fs.FS in front of the embedded templates.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = append(cfg.templateFS, files)
		}
	}
}

// WithTemplatesDir layers a directory in front of the embedded templates.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = append(cfg.templateFS, os.DirFS(path))
	}
}

// WithTemplateRenderer injects a custom template renderer. It must provide
// the cssident filter and every template the bundle ships.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithHelpPolicy replaces the sanitiser applied to help text. The default is
// bluemonday's UGC policy.
func WithHelpPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// Renderer renders boxes to HTML.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	policy    *bluemonday.Policy
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.policy == nil {
		cfg.policy = bluemonday.UGCPolicy()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engineOpts := make([]pongo.Option, 0, len(cfg.templateFS)+1)
		for _, files := range cfg.templateFS {
			engineOpts = append(engineOpts, pongo.WithFS(files))
		}
		engineOpts = append(engineOpts, pongo.WithFS(TemplatesFS()))

		engine, err := pongo.New(engineOpts...)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, policy: cfg.policy}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the form markup for box in its current state.
func (r *Renderer) Render(ctx context.Context, box *controlbox.Box, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	if box == nil {
		return nil, fmt.Errorf("html renderer: box is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v := &view{renderer: r, opts: opts, formID: box.FormID(), partials: partials(opts.Theme)}
	data, err := v.boxData(box)
	if err != nil {
		return nil, err
	}

	result, err := r.templates.RenderTemplate(v.template(partialBox), data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}
