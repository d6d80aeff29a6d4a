package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/dmview/internal/core/preview"
	"github.com/colonyops/dmview/internal/dmview"
	"github.com/colonyops/dmview/pkg/iojson"
)

type RenderCmd struct {
	flags *Flags
	app   *dmview.App

	// flags
	doc     documentFlags
	input   iojson.FileReader[preview.Model]
	stripMarkup bool
}

// NewRenderCmd creates a new render command
func NewRenderCmd(flags *Flags, app *dmview.App) *RenderCmd {
	return &RenderCmd{flags: flags, app: app}
}

// Register adds the render command to the application
func (cmd *RenderCmd) Register(app *cli.Command) *cli.Command {
	flags := append(cmd.doc.flags(),
		cmd.input.Flag(),
		&cli.BoolFlag{
			Name:        "strip-markup",
			Usage:       "strip HTML markup from text fields",
			Destination: &cmd.stripMarkup,
		},
	)

	app.Commands = append(app.Commands, &cli.Command{
		Name:      "render",
		Usage:     "Render a preview document without contacting the backend",
		UsageText: "dmview render [-f preview.json] [--json | --markdown]",
		Description: `Reads a preview document (the JSON the backend serves from /dm-preview) from
a file or stdin and renders it. Resource links point at api.base_url.`,
		Flags:  flags,
		Action: cmd.run,
	})

	return app
}

func (cmd *RenderCmd) run(_ context.Context, c *cli.Command) error {
	m, err := cmd.input.Read()
	if err != nil {
		return err
	}

	r := cmd.app.Renderer
	if cmd.stripMarkup {
		r = preview.NewRenderer(
			preview.WithResourceBase(cmd.app.Client.BaseURL()),
			preview.WithStripMarkup(),
		)
	}

	return writeDocument(c, cmd.doc, &m, r, nil, cmd.app.Config.TUI.WordWrap)
}
