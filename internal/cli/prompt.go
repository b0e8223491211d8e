package cli

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-controlbox/pkg/controlbox"
	"github.com/goliatone/go-controlbox/pkg/formdef"
	"github.com/goliatone/go-controlbox/pkg/renderers/tui"
)

func newPromptCommand(app *App) *cobra.Command {
	var (
		src         source
		mode        string
		output      string
		maxAttempts int
	)
	cmd := &cobra.Command{
		Use:   "prompt <definition>",
		Short: "Fill a form interactively in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, ok := tui.ParseOutputFormat(firstNonEmpty(output, app.Config.Output))
			if !ok {
				return fmt.Errorf("unknown output format %q", output)
			}
			runMode := tui.Mode(mode)
			switch runMode {
			case tui.ModeFill, tui.ModeValidate, tui.ModeSubmit:
			default:
				return fmt.Errorf("unknown mode %q", mode)
			}

			def, err := src.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			box, err := formdef.Build(def, nil, controlbox.WithLogger(app.log()))
			if err != nil {
				return err
			}

			driver := app.Driver
			if driver == nil {
				var opts []survey.AskOpt
				if in, out, ok := stdio(app); ok {
					opts = append(opts, survey.WithStdio(in, out, out))
				}
				driver = tui.NewSurveyDriver(app.Stderr, opts...)
			}
			renderer := tui.New(
				tui.WithPromptDriver(driver),
				tui.WithOutputFormat(format),
				tui.WithMaxAttempts(maxAttempts),
				tui.WithLogger(app.log()),
			)

			out, res, err := renderer.Run(cmd.Context(), box, runMode)
			if err != nil {
				return err
			}
			app.log().Debug("cli: prompt finished", zap.String("state", res.State.String()))
			_, err = fmt.Fprintln(app.Stdout, string(out))
			return err
		},
	}
	src.bind(cmd)
	cmd.Flags().StringVar(&mode, "mode", string(tui.ModeValidate), "what to do once answered: fill, validate or submit")
	cmd.Flags().StringVar(&output, "output", "", "output format: json, form or pretty")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "re-prompt limit per control, 0 for unlimited")
	return cmd
}

// stdio returns the terminal survey prompts on. Prompts go to stderr so
// stdout only carries the collected value.
func stdio(app *App) (terminal.FileReader, terminal.FileWriter, bool) {
	in, inOK := app.Stdin.(terminal.FileReader)
	out, outOK := app.Stderr.(terminal.FileWriter)
	return in, out, inOK && outOK
}
