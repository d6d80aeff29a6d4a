package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/dmview/internal/core/browse"
	"github.com/colonyops/dmview/internal/dmview"
	"github.com/colonyops/dmview/pkg/iojson"
)

type LsCmd struct {
	flags *Flags
	app   *dmview.App

	// flags
	jsonOutput bool
	query      string
	labels     string
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *dmview.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List Data Modules in the CSDB",
		UsageText: "dmview ls [--query text] [--labels \"a, b\"] [--json]",
		Description: `Displays a table of Data Modules with their code, title, and path.

Use --query to filter by code, title, or path, and --labels to keep only the
Data Modules applicable to a label selection.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
			&cli.StringFlag{
				Name:        "query",
				Aliases:     []string{"q"},
				Usage:       "case-insensitive text filter",
				Destination: &cmd.query,
			},
			labelsFlag(&cmd.labels),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	items, err := cmd.app.Client.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	ctrl := browse.NewController(cmd.labels)
	ctrl.ApplyCatalog(browse.CatalogOutcome{Items: items})
	ctrl.SetQuery(cmd.query)

	if c.IsSet("labels") {
		seq, labels := ctrl.BeginResolve()
		res, err := cmd.app.Client.Resolve(ctx, labels)
		if err != nil {
			return fmt.Errorf("resolve applicability: %w", err)
		}
		ctrl.ApplyResolve(browse.ResolveOutcome{Seq: seq, Labels: labels, Result: res})
	}

	out := c.Root().Writer
	visible := ctrl.Visible()

	// The summary goes to stderr so --json output stays one document per line.
	_, _ = fmt.Fprintln(c.Root().ErrWriter, ctrl.Summary())

	if cmd.jsonOutput {
		for _, d := range visible {
			if err := iojson.WriteLine(out, d); err != nil {
				return fmt.Errorf("encode document: %w", err)
			}
		}
		return nil
	}

	if len(visible) > 0 {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "DMC\tTITLE\tAPPLIC\tPATH")
		for _, d := range visible {
			applic := ""
			if d.HasApplicability {
				applic = "yes"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.DMCode, d.DMTitle, applic, d.Path)
		}
		_ = w.Flush()
	}

	return nil
}
