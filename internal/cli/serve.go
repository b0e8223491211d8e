package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-controlbox/internal/server"
	"github.com/goliatone/go-controlbox/pkg/controlbox"
	"github.com/goliatone/go-controlbox/pkg/render"
	"github.com/goliatone/go-controlbox/pkg/renderers/html"
)

func newServeCommand(app *App) *cobra.Command {
	var (
		src       source
		addr      string
		path      string
		templates string
		csrfToken string
	)
	cmd := &cobra.Command{
		Use:   "serve <definition>",
		Short: "Serve a form definition over HTTP",
		Long: `Serves the form at --path. GET renders it, POST binds the posted values and
validates (_action=validate) or submits them. Submitted values are logged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := src.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderer, err := html.New(html.WithTemplatesDir(firstNonEmpty(templates, app.Config.TemplatesDir)))
			if err != nil {
				return err
			}

			logger := app.log()
			opts := []server.Option{
				server.WithRenderer(renderer),
				server.WithLogger(logger),
				server.WithOnSubmit(func(_ context.Context, value map[string]any, box *controlbox.Box) error {
					logger.Info("form submitted",
						zap.String("form_id", box.FormID()),
						zap.String("value", controlbox.Jsonify(value)))
					return nil
				}),
			}
			if csrfToken != "" {
				opts = append(opts, server.WithHiddenFields(render.CSRFToken(app.Config.CSRFField, csrfToken)))
			}
			handler, err := server.New(def, opts...)
			if err != nil {
				return err
			}

			return server.Run(cmd.Context(), server.Config{
				Addr:         firstNonEmpty(addr, app.Config.Addr),
				ReadTimeout:  app.Config.ReadTimeout,
				WriteTimeout: app.Config.WriteTimeout,
				ShutdownWait: app.Config.ShutdownWait,
			}, server.NewMux(path, handler), logger)
		},
	}
	src.bind(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to CONTROLBOX_ADDR)")
	cmd.Flags().StringVar(&path, "path", "/", "path the form is served at")
	cmd.Flags().StringVar(&templates, "templates", "", "directory of template overrides")
	cmd.Flags().StringVar(&csrfToken, "csrf-token", "", "static token added to every form as a hidden field")
	return cmd
}
