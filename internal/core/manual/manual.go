// Package manual renders Data Module previews as styled terminal text.
package manual

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/dmview/internal/core/preview"
	"github.com/colonyops/dmview/internal/core/styles"
)

// DefaultWidth is used when the caller has no terminal width.
const DefaultWidth = 100

// Markdown renders md through glamour with the active theme at the given
// word-wrap width. Leading and trailing blank or rule-only lines are removed.
func Markdown(md string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}

	style := styles.GlamourStyle()
	noMargin := uint(0)
	style.Document.Margin = &noMargin

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}

	rendered, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	content := strings.TrimSpace(rendered)
	content = stripLeadingDecorative(content)
	return stripTrailingDecorative(content), nil
}

// Document renders a preview model to terminal text. When glamour fails the
// plain markdown is returned so the preview is never blank.
func Document(m *preview.Model, r *preview.Renderer, media preview.MediaLookup, width int) string {
	md := preview.Markdown(m, r.Render(m), media)
	out, err := Markdown(md, width)
	if err != nil {
		log.Debug().Err(err).Msg("failed to render preview markdown, showing raw content")
		return md
	}
	return out
}

func isDecorativeLine(line string) bool {
	stripped := strings.TrimSpace(ansi.Strip(line))
	if stripped == "" {
		return true
	}
	for _, r := range stripped {
		if r != '─' && r != '━' && r != '-' && r != '=' {
			return false
		}
	}
	return true
}

func stripLeadingDecorative(content string) string {
	lines := strings.Split(content, "\n")
	start := 0
	for start < len(lines) && isDecorativeLine(lines[start]) {
		start++
	}
	if start > 0 {
		return strings.Join(lines[start:], "\n")
	}
	return content
}

func stripTrailingDecorative(content string) string {
	lines := strings.Split(content, "\n")
	end := len(lines)
	for end > 0 && isDecorativeLine(lines[end-1]) {
		end--
	}
	if end < len(lines) {
		return strings.Join(lines[:end], "\n")
	}
	return content
}
