package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/dmview/internal/core/config"
	"github.com/colonyops/dmview/internal/core/styles"
	"github.com/colonyops/dmview/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "dmview config validate [options]",
				Description: "Validates the configuration file, checking the backend URL, theme, keybindings, and file paths.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

type validationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validationReport struct {
	Valid    bool                       `json:"valid"`
	Errors   []validationIssue          `json:"errors,omitempty"`
	Warnings []config.ValidationWarning `json:"warnings,omitempty"`
}

func newValidationReport(cfg *config.Config, configPath string) validationReport {
	report := validationReport{Warnings: cfg.Warnings()}

	err := cfg.ValidateDeep(configPath)
	if err == nil {
		report.Valid = true
		return report
	}

	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			report.Errors = append(report.Errors, validationIssue{Field: fe.Field, Message: fe.Err.Error()})
		}
	} else {
		report.Errors = append(report.Errors, validationIssue{Message: err.Error()})
	}
	return report
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	report := newValidationReport(cmd.flags.Config, cmd.flags.ConfigPath)

	out := c.Root().Writer
	switch cmd.format {
	case "json":
		if err := iojson.WriteWith(out, c.Root().ErrWriter, report); err != nil {
			return err
		}
	case "text":
		writeValidationText(out, report)
	default:
		return fmt.Errorf("unknown format %q: expected text or json", cmd.format)
	}

	if !report.Valid {
		return cli.Exit("", 1)
	}
	return nil
}

func writeValidationText(w io.Writer, r validationReport) {
	for _, warn := range r.Warnings {
		_, _ = fmt.Fprintf(w, "%s %s: %s\n", styles.LoadingStyle.Render("warn"), warn.Category, warn.Message)
		if warn.Item != "" {
			_, _ = fmt.Fprintf(w, "  Item: %s\n", warn.Item)
		}
	}

	for _, e := range r.Errors {
		field := e.Field
		if field == "" {
			field = "config"
		}
		_, _ = fmt.Fprintf(w, "%s %s: %s\n", styles.ErrorStyle.Render("error"), field, e.Message)
	}

	_, _ = fmt.Fprintln(w)
	if r.Valid {
		_, _ = fmt.Fprintln(w, styles.EvalAppliesStyle.Render("Configuration is valid"))
		return
	}
	_, _ = fmt.Fprintln(w, styles.ErrorStyle.Render(fmt.Sprintf("%d error(s) found", len(r.Errors))))
}
