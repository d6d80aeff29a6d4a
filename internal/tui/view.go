package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/dmview/internal/core/browse"
	"github.com/colonyops/dmview/internal/core/config"
	"github.com/colonyops/dmview/internal/core/csdb"
	"github.com/colonyops/dmview/internal/core/manual"
	"github.com/colonyops/dmview/internal/core/styles"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	topChrome   = 3 // header, inputs, blank line
	footerLines = 1
	panelChrome = 4 // border, title, eval line
	minListRows = 3
)

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w == 0 {
		w = defaultWidth
	}
	if h == 0 {
		h = defaultHeight
	}
	return w, h
}

func (m Model) listHeight() int {
	_, h := m.size()
	avail := max(h-topChrome-footerLines, minListRows)
	if _, ok := m.ctrl.Expanded(); ok {
		return max(minListRows, avail/3)
	}
	return avail
}

func (m Model) detailHeight() int {
	_, h := m.size()
	avail := max(h-topChrome-footerLines, minListRows)
	return max(minListRows, avail-m.listHeight()-panelChrome)
}

// refreshDetail re-renders the expanded row into the detail viewport.
func (m *Model) refreshDetail() {
	e, ok := m.ctrl.Expanded()
	if !ok {
		m.detail.SetContent("")
		return
	}
	m.detail.SetHeight(m.detailHeight())
	m.detail.SetContent(m.detailContent(e))
}

func (m Model) detailContent(e browse.Expansion) string {
	w, _ := m.size()
	wrap := min(max(w-6, 20), m.cfg.TUI.WordWrap)

	var b strings.Builder
	switch e.PreviewState {
	case browse.LoadPending, browse.LoadIdle:
		b.WriteString(styles.LoadingStyle.Render(browse.LoadingText))
	case browse.LoadFailed:
		b.WriteString(styles.ErrorStyle.Render(e.PreviewErr))
	case browse.LoadDone:
		b.WriteString(manual.Document(e.Preview, m.renderer, e.MediaLookup(), wrap))
	}

	if e.RawXMLVisible {
		b.WriteString("\n\n")
		b.WriteString(styles.PanelTitleStyle.Render(styles.IconXML + " Raw XML"))
		b.WriteString("\n")
		switch e.RawXMLState {
		case browse.LoadIdle:
			b.WriteString(styles.HelpStyle.Render(fmt.Sprintf("press %s to load", firstKey(m.cfg, config.ActionLoadXML))))
		case browse.LoadPending:
			b.WriteString(styles.LoadingStyle.Render(browse.LoadingText))
		case browse.LoadFailed:
			b.WriteString(styles.ErrorStyle.Render(e.RawXMLErr))
		case browse.LoadDone:
			b.WriteString(styles.XMLStyle.Render(e.RawXML))
		}
	}

	return b.String()
}

func firstKey(cfg *config.Config, action string) string {
	if keys := cfg.KeysFor(action); len(keys) > 0 {
		return keys[0]
	}
	return action
}

// View renders the browser.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	w, _ := m.size()
	sections := []string{
		m.renderHeader(w),
		m.renderInputs(),
		"",
		m.renderList(w),
	}
	if e, ok := m.ctrl.Expanded(); ok {
		sections = append(sections, m.renderPanel(e, w))
	}
	sections = append(sections, m.renderFooter(w))

	v := tea.NewView(lipgloss.JoinVertical(lipgloss.Left, sections...))
	v.AltScreen = true
	return v
}

func (m Model) renderHeader(w int) string {
	title := styles.HeaderStyle.Render(styles.IconDocument + " dmview")
	summary := styles.SummaryStyle.Render(m.ctrl.Summary())
	if m.ctrl.Filtering() {
		summary = styles.FilterOnStyle.Render(styles.IconFilter + " " + m.ctrl.Summary())
	}

	line := title + "  " + summary
	switch state, errMsg, res := m.ctrl.ResolveState(); state {
	case browse.LoadPending:
		line += "  " + m.spinner.View() + styles.LoadingStyle.Render(" Resolving…")
	case browse.LoadFailed:
		line += "  " + styles.ErrorStyle.Render(errMsg)
	case browse.LoadDone:
		if res != nil {
			line += "  " + styles.SummaryStyle.Render(fmt.Sprintf("applicable %d · excluded %d", res.ApplicableCount, res.ExcludedCount))
		}
	}
	return ansi.Truncate(line, w, "…")
}

func (m Model) renderInputs() string {
	search := styles.InputFieldStyle.Render(m.search.View())
	if m.focus == focusSearch {
		search = styles.InputFieldFocusedStyle.Render(m.search.View())
	}
	labels := styles.InputFieldStyle.Render(m.labels.View())
	if m.focus == focusLabels {
		labels = styles.InputFieldFocusedStyle.Render(m.labels.View())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, search, "  ", labels)
}

func (m Model) renderList(w int) string {
	state, errMsg := m.ctrl.CatalogState()
	switch state {
	case browse.LoadPending:
		return m.spinner.View() + styles.LoadingStyle.Render(" "+browse.LoadingText)
	case browse.LoadFailed:
		return styles.ErrorStyle.Render(errMsg)
	}

	visible := m.ctrl.Visible()
	if len(visible) == 0 {
		return styles.HelpStyle.Render("No DMs match.")
	}

	height := m.listHeight()
	cursor := m.ctrl.Cursor()
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := min(start+height, len(visible))

	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, m.renderRow(visible[i], i == cursor, w))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderRow(doc csdb.DocumentSummary, selected bool, w int) string {
	icon := styles.IconCollapsed
	code := styles.RowCodeStyle.Render(doc.DMCode)
	if m.ctrl.IsExpanded(doc.Path) {
		icon = styles.IconExpanded
		code = styles.RowExpandedStyle.Render(doc.DMCode)
	}
	if doc.DMCode == "" {
		code = styles.RowCodeStyle.Render(doc.Path)
	}

	line := icon + " " + code + "  " + styles.RowTitleStyle.Render(doc.DMTitle)
	if doc.HasApplicability {
		line += " " + styles.ApplicBadgeStyle.Render(styles.IconApplic)
	}
	line = ansi.Truncate(line, max(w-3, 10), "…")

	if selected {
		return styles.RowCursorStyle.Render(line)
	}
	return styles.RowStyle.Render(line)
}

func (m Model) renderPanel(e browse.Expansion, w int) string {
	title := styles.PanelTitleStyle.Render(ansi.Truncate(e.Row(), max(w-6, 10), "…"))
	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.renderEvalLine(e),
		m.detail.View(),
	)
	return styles.PanelFocusedStyle.Width(max(w-2, 20)).Render(content)
}

func (m Model) renderEvalLine(e browse.Expansion) string {
	line := browse.EvalLine(e)
	switch {
	case e.EvalState == browse.LoadDone && e.Eval != nil && e.Eval.Applies:
		return styles.EvalAppliesStyle.Render(line)
	case e.EvalState == browse.LoadDone && e.Eval != nil:
		return styles.EvalExcludedStyle.Render(line)
	}
	return styles.EvalUnknownStyle.Render(line)
}

func (m Model) renderFooter(w int) string {
	if m.status != "" {
		return styles.StatusMessageStyle.Render(m.status)
	}
	help := m.keys.helpLine()
	if m.detail.TotalLineCount() > m.detail.VisibleLineCount() {
		help = styles.ScrollStyle.Render(fmt.Sprintf("%.0f%% ", m.detail.ScrollPercent()*100)) + help
	}
	return styles.HelpStyle.Render(ansi.Truncate(help, w, "…"))
}
