package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/dmview/internal/core/logging"
	"github.com/colonyops/dmview/internal/core/preview"
	"github.com/colonyops/dmview/internal/dmview"
)

type PreviewCmd struct {
	flags *Flags
	app   *dmview.App

	// flags
	doc   documentFlags
	media bool
}

// NewPreviewCmd creates a new preview command
func NewPreviewCmd(flags *Flags, app *dmview.App) *PreviewCmd {
	return &PreviewCmd{flags: flags, app: app}
}

// Register adds the preview command to the application
func (cmd *PreviewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "preview",
		Usage:     "Show the manual-style preview of a Data Module",
		UsageText: "dmview preview [--json | --markdown] [--media] <path>",
		Description: `Fetches the preview of the Data Module at <path> and renders it the way the
browser does. --media also fetches every figure and logo so unavailable
images (such as CGM) are marked in the output.`,
		Flags: append(cmd.doc.flags(),
			&cli.BoolFlag{
				Name:        "media",
				Usage:       "fetch referenced figures and report their status",
				Destination: &cmd.media,
			},
		),
		Action: cmd.run,
	})

	return app
}

func (cmd *PreviewCmd) run(ctx context.Context, c *cli.Command) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("missing <path> argument")
	}
	ctx = logging.WithDMPath(ctx, path)

	m, err := cmd.app.Client.Preview(ctx, path)
	if err != nil {
		return fmt.Errorf("load preview: %w", err)
	}

	var media preview.MediaLookup
	if cmd.media {
		media = probeMedia(ctx, cmd.app.Orchestrator, m)
	}

	return writeDocument(c, cmd.doc, m, cmd.app.Renderer, media, cmd.app.Config.TUI.WordWrap)
}
