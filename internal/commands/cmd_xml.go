package commands

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/dmview/internal/core/logging"
	"github.com/colonyops/dmview/internal/dmview"
)

type XMLCmd struct {
	flags *Flags
	app   *dmview.App

	// flags
	copy bool

	// writeClipboard is swapped in tests.
	writeClipboard func(string) error
}

// NewXMLCmd creates a new xml command
func NewXMLCmd(flags *Flags, app *dmview.App) *XMLCmd {
	return &XMLCmd{flags: flags, app: app, writeClipboard: clipboard.WriteAll}
}

// Register adds the xml command to the application
func (cmd *XMLCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "xml",
		Usage:     "Print the raw XML of a Data Module",
		UsageText: "dmview xml [--copy] <path>",
		Description: `Prints the source XML of the Data Module at <path> to stdout. The
applicability annotation, when present, is printed to stderr.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "copy",
				Usage:       "also copy the XML to the system clipboard",
				Destination: &cmd.copy,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *XMLCmd) run(ctx context.Context, c *cli.Command) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("missing <path> argument")
	}

	markup, err := cmd.app.Client.RawMarkup(logging.WithDMPath(ctx, path), path)
	if err != nil {
		return fmt.Errorf("load xml: %w", err)
	}

	errOut := c.Root().ErrWriter
	if markup.ApplicText != "" {
		_, _ = fmt.Fprintf(errOut, "applicability: %s\n", markup.ApplicText)
	}

	if _, err := fmt.Fprintln(c.Root().Writer, markup.XML); err != nil {
		return err
	}

	if cmd.copy {
		if err := cmd.writeClipboard(markup.XML); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		_, _ = fmt.Fprintf(errOut, "copied %s to clipboard\n", humanize.Bytes(uint64(len(markup.XML))))
	}

	return nil
}
