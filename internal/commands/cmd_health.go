package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/dmview/internal/dmview"
	"github.com/colonyops/dmview/pkg/iojson"
)

type HealthCmd struct {
	flags *Flags
	app   *dmview.App

	jsonOutput bool
}

// NewHealthCmd creates a new health command
func NewHealthCmd(flags *Flags, app *dmview.App) *HealthCmd {
	return &HealthCmd{flags: flags, app: app}
}

// Register adds the health command to the application
func (cmd *HealthCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "health",
		Usage:     "Check that the CSDB backend is reachable",
		UsageText: "dmview health [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the health report as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *HealthCmd) run(ctx context.Context, c *cli.Command) error {
	h, err := cmd.app.Client.Health(ctx)
	if err != nil {
		return fmt.Errorf("health check %s: %w", cmd.app.Client.BaseURL(), err)
	}

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, h)
	}

	_, err = fmt.Fprintf(c.Root().Writer, "%s: %s\n", cmd.app.Client.BaseURL(), h.Status)
	return err
}
