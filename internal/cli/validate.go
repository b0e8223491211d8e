package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-controlbox/pkg/control"
	"github.com/goliatone/go-controlbox/pkg/controlbox"
	"github.com/goliatone/go-controlbox/pkg/formdef"
)

// ErrInvalid is returned when the values do not pass validation.
var ErrInvalid = errors.New("form is invalid")

func newValidateCommand(app *App) *cobra.Command {
	var (
		src    source
		values string
		submit bool
	)
	cmd := &cobra.Command{
		Use:   "validate <definition>",
		Short: "Validate a set of values against a form definition",
		Long: `Binds the values file (JSON or YAML, keyed by control name) to the form and
validates it. The aggregated value is printed on success; the error report is
printed to stderr and the command fails otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := src.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			box, err := formdef.Build(def, nil,
				controlbox.WithLogger(app.log()),
				controlbox.WithPropagation(false),
			)
			if err != nil {
				return err
			}

			if values != "" {
				input, err := readValues(values)
				if err != nil {
					return err
				}
				if errs := bindValues(box, input); len(errs) > 0 {
					box.SetError(&controlbox.ValidationError{Errors: errs})
					return report(app, box)
				}
			}

			if submit {
				_, err = box.Submit(cmd.Context())
			} else {
				_, err = box.Validate(cmd.Context())
			}
			if err != nil {
				return err
			}
			if box.State() == controlbox.StateErroneous {
				return report(app, box)
			}
			_, err = fmt.Fprintln(app.Stdout, controlbox.Jsonify(box.Value()))
			return err
		},
	}
	src.bind(cmd)
	cmd.Flags().StringVar(&values, "values", "", "JSON or YAML file with the values to bind")
	cmd.Flags().BoolVar(&submit, "submit", false, "submit instead of only validating")
	return cmd
}

func report(app *App, box *controlbox.Box) error {
	display := box.ErrorDisplay()
	if display == nil {
		return ErrInvalid
	}
	if _, err := fmt.Fprintf(app.Stderr, "%s: %s\n", display.Name(), display.Message()); err != nil {
		return err
	}
	return ErrInvalid
}

func readValues(path string) (map[string]any, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	// JSON documents are valid YAML
	var out map[string]any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse values %s: %w", path, err)
	}
	return out, nil
}

// bindValues binds decoded values to the controls of the box. Keys without a
// matching control are ignored.
func bindValues(box *controlbox.Box, values map[string]any) []error {
	var errs []error
	for _, c := range box.Controls() {
		raw, ok := values[c.Name()]
		if !ok {
			continue
		}
		binder, ok := c.(control.Binder)
		if !ok {
			continue
		}
		text, err := toText(raw)
		if err != nil {
			fe := &control.FieldError{Field: c.Name(), Message: err.Error(), Err: err}
			if holder, ok := c.(interface{ SetErr(error) }); ok {
				holder.SetErr(fe)
			}
			errs = append(errs, fe)
			continue
		}
		if err := binder.Bind(text); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func toText(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			text, err := toText(item)
			if err != nil {
				return "", err
			}
			items = append(items, text)
		}
		return strings.Join(items, "\n"), nil
	case map[string]any:
		return "", fmt.Errorf("%w: objects cannot be bound to a control", control.ErrInvalidInput)
	default:
		return fmt.Sprint(v), nil
	}
}
