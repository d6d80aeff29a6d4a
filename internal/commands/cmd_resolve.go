package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/dmview/internal/core/browse"
	"github.com/colonyops/dmview/internal/core/csdb"
	"github.com/colonyops/dmview/internal/dmview"
	"github.com/colonyops/dmview/pkg/iojson"
)

type ResolveCmd struct {
	flags *Flags
	app   *dmview.App

	// flags
	labels     string
	jsonOutput bool
}

// NewResolveCmd creates a new resolve command
func NewResolveCmd(flags *Flags, app *dmview.App) *ResolveCmd {
	return &ResolveCmd{flags: flags, app: app}
}

// Register adds the resolve command to the application
func (cmd *ResolveCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "resolve",
		Usage:     "List the Data Modules applicable to a label selection",
		UsageText: "dmview resolve [--labels \"a, b\"] [--json]",
		Description: `Asks the backend which Data Modules apply to the selected labels. The backend
may truncate the lists; the counts are always exact.`,
		Flags: []cli.Flag{
			labelsFlag(&cmd.labels),
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the raw result as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ResolveCmd) run(ctx context.Context, c *cli.Command) error {
	text := cmd.labels
	if !c.IsSet("labels") {
		text = cmd.app.Config.Applicability.DefaultLabels
	}

	res, err := cmd.app.Client.Resolve(ctx, browse.ParseLabels(text))
	if err != nil {
		return fmt.Errorf("resolve applicability: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteWith(out, c.Root().ErrWriter, res)
	}

	_, _ = fmt.Fprintf(out, "Selected: %s\n", strings.Join(res.Selected, ", "))
	writeRefs(out, "Applicable", res.ApplicableCount, res.Applicable)
	writeRefs(out, "Excluded", res.ExcludedCount, res.Excluded)
	return nil
}

func writeRefs(w io.Writer, title string, count int, refs []csdb.DocumentRef) {
	_, _ = fmt.Fprintf(w, "\n%s (%d)\n", title, count)
	for _, r := range refs {
		code := r.DMCode
		if code == "" {
			code = r.Path
		}
		_, _ = fmt.Fprintf(w, "  %s  %s\n", code, r.DMTitle)
	}
	if hidden := count - len(refs); hidden > 0 {
		_, _ = fmt.Fprintf(w, "  … %d more\n", hidden)
	}
}
