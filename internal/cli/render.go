package cli

import (
	"fmt"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-controlbox/pkg/formdef"
	"github.com/goliatone/go-controlbox/pkg/render"
	"github.com/goliatone/go-controlbox/pkg/renderers/html"
)

func newRenderCommand(app *App) *cobra.Command {
	var (
		src       source
		action    string
		method    string
		output    string
		templates string
		themeName string
		variant   string
		assetURL  string
	)
	cmd := &cobra.Command{
		Use:   "render <definition>",
		Short: "Render a form definition as HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := src.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			box, err := formdef.Build(def, nil)
			if err != nil {
				return err
			}
			renderer, err := html.New(html.WithTemplatesDir(firstNonEmpty(templates, app.Config.TemplatesDir)))
			if err != nil {
				return err
			}

			opts := render.RenderOptions{Action: action, Method: method, Locale: app.Config.Locale}
			if themeName != "" || variant != "" || assetURL != "" {
				opts.Theme = &theme.RendererConfig{
					Theme:    themeName,
					Variant:  variant,
					AssetURL: assetResolver(assetURL),
				}
			}

			markup, err := renderer.Render(cmd.Context(), box, opts)
			if err != nil {
				return err
			}
			app.log().Debug("cli: rendered form", zap.String("form_id", box.FormID()), zap.Int("bytes", len(markup)))

			if output == "" {
				_, err = fmt.Fprintln(app.Stdout, string(markup))
				return err
			}
			if err := os.WriteFile(output, markup, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			_, err = fmt.Fprintf(app.Stdout, "Form written to %s\n", output)
			return err
		},
	}
	src.bind(cmd)
	cmd.Flags().StringVar(&action, "action", "", "form action URL")
	cmd.Flags().StringVar(&method, "method", "POST", "form method; anything but GET and POST adds a _method field")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&templates, "templates", "", "directory of template overrides")
	cmd.Flags().StringVar(&themeName, "theme", "", "theme name")
	cmd.Flags().StringVar(&variant, "variant", "", "theme variant")
	cmd.Flags().StringVar(&assetURL, "assets", "", "base URL of theme assets")
	return cmd
}

func assetResolver(base string) func(string) string {
	if base == "" {
		return nil
	}
	return func(name string) string {
		return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(name, "/")
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
