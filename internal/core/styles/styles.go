// Package styles provides shared lipgloss v2 styles for CLI and TUI components.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	CommandStyle       lipgloss.Style
	DividerStyle       lipgloss.Style

	// Catalog list.
	HeaderStyle        lipgloss.Style
	SummaryStyle       lipgloss.Style
	RowStyle           lipgloss.Style
	RowCursorStyle     lipgloss.Style
	RowExpandedStyle   lipgloss.Style
	RowCodeStyle       lipgloss.Style
	RowTitleStyle      lipgloss.Style
	ApplicBadgeStyle   lipgloss.Style
	FilterOnStyle      lipgloss.Style
	ErrorStyle         lipgloss.Style
	LoadingStyle       lipgloss.Style
	HelpStyle          lipgloss.Style
	StatusMessageStyle lipgloss.Style

	// Inputs.
	InputLabelStyle        lipgloss.Style
	InputFieldStyle        lipgloss.Style
	InputFieldFocusedStyle lipgloss.Style

	// Detail panel.
	PanelStyle        lipgloss.Style
	PanelFocusedStyle lipgloss.Style
	PanelTitleStyle   lipgloss.Style
	EvalAppliesStyle  lipgloss.Style
	EvalExcludedStyle lipgloss.Style
	EvalUnknownStyle  lipgloss.Style
	XMLStyle          lipgloss.Style
	ScrollStyle       lipgloss.Style
	CopiedStyle       lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	CommandStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	SummaryStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	RowStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		PaddingLeft(2)
	RowCursorStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(ColorPrimary).
		Foreground(ColorForeground).
		Background(ColorSurface).
		PaddingLeft(1)
	RowExpandedStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	RowCodeStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)
	RowTitleStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	ApplicBadgeStyle = lipgloss.NewStyle().
		Foreground(ColorWarning)
	FilterOnStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Bold(true)
	ErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError)
	LoadingStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)
	HelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	StatusMessageStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess)

	InputLabelStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	InputFieldStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(ColorMuted).
		PaddingLeft(1)
	InputFieldFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(ColorPrimary).
		PaddingLeft(1)

	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSurface).
		Padding(0, 1)
	PanelFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(0, 1)
	PanelTitleStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Bold(true)
	EvalAppliesStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess)
	EvalExcludedStyle = lipgloss.NewStyle().
		Foreground(ColorError)
	EvalUnknownStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)
	XMLStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)
	ScrollStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	CopiedStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
