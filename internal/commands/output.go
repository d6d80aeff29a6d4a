package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/dmview/internal/core/browse"
	"github.com/colonyops/dmview/internal/core/manual"
	"github.com/colonyops/dmview/internal/core/preview"
	"github.com/colonyops/dmview/pkg/iojson"
)

// labelsFlag is the shared --labels flag. Destination receives the raw
// comma-separated text.
func labelsFlag(dest *string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "labels",
		Aliases:     []string{"l"},
		Usage:       "comma-separated applicability labels (defaults to applicability.default_labels)",
		Destination: dest,
	}
}

// outputWidth returns the word-wrap width for w: the terminal width when w is
// a terminal, capped at max.
func outputWidth(w io.Writer, limit int) int {
	width := manual.DefaultWidth
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			width = tw
		}
	}
	if limit > 0 {
		width = min(width, limit)
	}
	return width
}

// probeMedia fetches every resource m refers to and returns their states.
func probeMedia(ctx context.Context, orch *browse.Orchestrator, m *preview.Model) preview.MediaLookup {
	urns := preview.MediaRefs(m)
	if len(urns) == 0 {
		return nil
	}

	states := make(map[string]preview.Media, len(urns))
	for o := range orch.FetchMedia(ctx, browse.Ticket{Row: m.Path}, urns) {
		if mo, ok := o.(browse.MediaOutcome); ok {
			states[mo.URN] = browse.MediaStatus(mo)
		}
	}

	return func(urn string) (preview.Media, bool) {
		s, ok := states[urn]
		return s, ok
	}
}

// previewOutput is the JSON shape of a rendered preview.
type previewOutput struct {
	Path    string       `json:"path,omitempty"`
	DMCode  string       `json:"dmCode,omitempty"`
	DMTitle string       `json:"dmTitle,omitempty"`
	Kind    string       `json:"kind"`
	RawKind string       `json:"raw_kind,omitempty"`
	View    preview.View `json:"view"`
}

func newPreviewOutput(m *preview.Model, v preview.View) previewOutput {
	return previewOutput{
		Path:    m.Path,
		DMCode:  m.DMCode,
		DMTitle: m.DMTitle,
		Kind:    m.Kind.String(),
		RawKind: m.RawKind,
		View:    v,
	}
}

// documentFlags are the output options shared by preview and render.
type documentFlags struct {
	jsonOutput bool
	markdown   bool
	width      int
}

func (f *documentFlags) flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "output the structured view as JSON",
			Destination: &f.jsonOutput,
		},
		&cli.BoolFlag{
			Name:        "markdown",
			Usage:       "output markdown without terminal styling",
			Destination: &f.markdown,
		},
		&cli.IntFlag{
			Name:        "width",
			Usage:       "word-wrap width (defaults to the terminal width)",
			Destination: &f.width,
		},
	}
}

// writeDocument renders m in the format selected by f.
func writeDocument(c *cli.Command, f documentFlags, m *preview.Model, r *preview.Renderer, media preview.MediaLookup, wrapLimit int) error {
	out := c.Root().Writer
	v := r.Render(m)

	if f.jsonOutput {
		return iojson.WriteWith(out, c.Root().ErrWriter, newPreviewOutput(m, v))
	}

	md := preview.Markdown(m, v, media)
	if f.markdown {
		_, err := io.WriteString(out, md)
		return err
	}

	width := f.width
	if width <= 0 {
		width = outputWidth(out, wrapLimit)
	}
	rendered, err := manual.Markdown(md, width)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, rendered)
	return err
}
