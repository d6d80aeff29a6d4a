package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/dmview/internal/core/browse"
	"github.com/colonyops/dmview/internal/core/logging"
	"github.com/colonyops/dmview/internal/dmview"
	"github.com/colonyops/dmview/pkg/iojson"
)

type EvalCmd struct {
	flags *Flags
	app   *dmview.App

	// flags
	labels     string
	jsonOutput bool
}

// NewEvalCmd creates a new eval command
func NewEvalCmd(flags *Flags, app *dmview.App) *EvalCmd {
	return &EvalCmd{flags: flags, app: app}
}

// Register adds the eval command to the application
func (cmd *EvalCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "eval",
		Usage:     "Evaluate the applicability of one Data Module",
		UsageText: "dmview eval [--labels \"a, b\"] [--json] <path>",
		Flags: []cli.Flag{
			labelsFlag(&cmd.labels),
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the raw evaluation as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *EvalCmd) run(ctx context.Context, c *cli.Command) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("missing <path> argument")
	}

	text := cmd.labels
	if !c.IsSet("labels") {
		text = cmd.app.Config.Applicability.DefaultLabels
	}

	res, err := cmd.app.Client.Evaluate(logging.WithDMPath(ctx, path), path, browse.ParseLabels(text))
	if err != nil {
		return fmt.Errorf("evaluate applicability: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteWith(out, c.Root().ErrWriter, res)
	}

	line := browse.EvalLine(browse.Expansion{Eval: res, EvalState: browse.LoadDone})
	if _, err := fmt.Fprintln(out, line); err != nil {
		return err
	}
	if res.ReasonText != "" {
		_, err = fmt.Fprintln(out, res.ReasonText)
	}
	return err
}
