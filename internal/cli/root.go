// Package cli wires the controlbox commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-controlbox/internal/config"
	"github.com/goliatone/go-controlbox/internal/logging"
	"github.com/goliatone/go-controlbox/pkg/formdef"
	"github.com/goliatone/go-controlbox/pkg/renderers/tui"
)

// App carries the state shared by every command.
type App struct {
	Config config.Config
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Driver replaces the terminal prompts of the prompt command.
	Driver tui.PromptDriver

	logger *zap.Logger
}

// source selects where a command reads its form definition from.
type source struct {
	openapi bool
	schema  string
}

func (s *source) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&s.openapi, "openapi", false, "treat the definition file as an OpenAPI document")
	cmd.Flags().StringVar(&s.schema, "schema", "", "component schema to build the form from (with --openapi)")
}

func (s source) load(ctx context.Context, path string) (formdef.Definition, error) {
	if !s.openapi {
		return formdef.LoadFile(path)
	}
	if strings.TrimSpace(s.schema) == "" {
		return formdef.Definition{}, fmt.Errorf("--schema is required with --openapi")
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return formdef.Definition{}, fmt.Errorf("read openapi document: %w", err)
	}
	return formdef.FromOpenAPI(ctx, data, s.schema)
}

// NewRootCommand builds the command tree for app.
func NewRootCommand(app *App) *cobra.Command {
	if app.Stdin == nil {
		app.Stdin = os.Stdin
	}
	if app.Stdout == nil {
		app.Stdout = os.Stdout
	}
	if app.Stderr == nil {
		app.Stderr = os.Stderr
	}

	debug := app.Config.Debug
	root := &cobra.Command{
		Use:           "controlbox",
		Short:         "Render, prompt, validate and serve declarative forms",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.logger != nil {
				return nil
			}
			if cmd.Name() == "serve" {
				logger, err := logging.New(debug)
				if err != nil {
					return err
				}
				app.logger = logger
				return nil
			}
			app.logger = logging.NewConsole(app.Stderr, debug)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.logger != nil {
				_ = app.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", debug, "enable debug logging")

	root.AddCommand(
		newRenderCommand(app),
		newPromptCommand(app),
		newValidateCommand(app),
		newServeCommand(app),
	)
	return root
}

// Execute runs the CLI with configuration read from the environment.
func Execute(ctx context.Context, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	root := NewRootCommand(&App{Config: cfg})
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (app *App) log() *zap.Logger {
	if app.logger == nil {
		return zap.NewNop()
	}
	return app.logger
}
