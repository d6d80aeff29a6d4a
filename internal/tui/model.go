// Package tui implements the interactive Data Module browser.
package tui

import (
	"context"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/dmview/internal/core/browse"
	"github.com/colonyops/dmview/internal/core/config"
	"github.com/colonyops/dmview/internal/core/logging"
	"github.com/colonyops/dmview/internal/core/preview"
	"github.com/colonyops/dmview/internal/core/styles"
)

const detailScrollStep = 5

type focus int

const (
	focusList focus = iota
	focusSearch
	focusLabels
)

// Deps are the collaborators the TUI needs.
type Deps struct {
	Config       *config.Config
	Orchestrator *browse.Orchestrator
	Renderer     *preview.Renderer

	// Clipboard writes text to the system clipboard. Defaults to atotto/clipboard.
	Clipboard func(string) error
}

// Model is the bubbletea model of the browser.
type Model struct {
	ctx       context.Context
	cfg       *config.Config
	orch      *browse.Orchestrator
	renderer  *preview.Renderer
	clipboard func(string) error

	ctrl *browse.Controller
	keys keyMap

	focus   focus
	search  textinput.Model
	labels  textinput.Model
	detail  viewport.Model
	spinner spinner.Model

	// expandCtx scopes the fetches of the current expansion; it is canceled
	// when the row collapses or another row expands.
	expandCtx    context.Context
	expandCancel context.CancelFunc

	status   string
	width    int
	height   int
	quitting bool
}

// New creates the browser model. ctx bounds every backend call.
func New(ctx context.Context, deps Deps) Model {
	clip := deps.Clipboard
	if clip == nil {
		clip = clipboard.WriteAll
	}
	renderer := deps.Renderer
	if renderer == nil {
		renderer = preview.NewRenderer()
	}

	search := newInput("Search: ", "code or title")
	labels := newInput("Labels: ", "comma separated")
	labels.SetValue(deps.Config.Applicability.DefaultLabels)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.LoadingStyle

	return Model{
		ctx:       ctx,
		cfg:       deps.Config,
		orch:      deps.Orchestrator,
		renderer:  renderer,
		clipboard: clip,
		ctrl:      browse.NewController(deps.Config.Applicability.DefaultLabels),
		keys:      newKeyMap(deps.Config),
		search:    search,
		labels:    labels,
		detail:    viewport.New(viewport.WithWidth(80), viewport.WithHeight(10)),
		spinner:   s,
		expandCtx: ctx,
	}
}

func newInput(prompt, placeholder string) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	st := textinput.DefaultStyles(true)
	st.Focused.Prompt = styles.InputLabelStyle
	st.Blurred.Prompt = styles.InputLabelStyle
	st.Cursor.Color = styles.ColorPrimary
	in.SetStyles(st)
	return in
}

// Controller exposes the selection state, for tests and callers embedding
// the model.
func (m Model) Controller() *browse.Controller {
	return m.ctrl
}

// Init starts the catalog load.
func (m Model) Init() tea.Cmd {
	m.ctrl.BeginCatalog()
	return tea.Batch(m.loadCatalog(), m.spinner.Tick)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case outcomeMsg:
		return m.handleOutcome(msg)
	case copiedMsg:
		return m.handleCopied(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width, m.height = msg.Width, msg.Height
	m.search.SetWidth(max(msg.Width/2-12, 10))
	m.labels.SetWidth(max(msg.Width/2-12, 10))
	m.detail.SetWidth(max(msg.Width-4, 20))
	m.detail.SetHeight(m.detailHeight())
	m.refreshDetail()
	return m, nil
}

func (m Model) handleOutcome(msg outcomeMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{waitForOutcome(msg.stream)}

	urns, applied := m.ctrl.Apply(msg.outcome)
	if !applied {
		return m, tea.Batch(cmds...)
	}

	if _, ok := msg.outcome.(browse.ResolveOutcome); ok {
		if _, expanded := m.ctrl.Expanded(); !expanded {
			m.cancelExpand()
		}
	}

	if len(urns) > 0 {
		if e, ok := m.ctrl.Expanded(); ok {
			ctx, t := m.expandCtx, e.Ticket
			cmds = append(cmds, startStream(func() <-chan browse.Outcome {
				return m.orch.FetchMedia(ctx, t, urns)
			}))
		}
	}

	m.refreshDetail()
	return m, tea.Batch(cmds...)
}

func (m Model) handleCopied(msg copiedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.Warn().Err(msg.err).Msg("copy to clipboard failed")
		m.status = "Copy failed: " + msg.err.Error()
		return m, nil
	}
	m.status = "Copied XML to clipboard"
	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.focus {
	case focusSearch, focusLabels:
		return m.handleInputKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleInputKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.blurInputs()
		return m, nil
	case "enter":
		wasLabels := m.focus == focusLabels
		m.blurInputs()
		if wasLabels {
			return m.runAction(config.ActionResolve)
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == focusSearch {
		m.search, cmd = m.search.Update(msg)
		m.ctrl.SetQuery(m.search.Value())
	} else {
		m.labels, cmd = m.labels.Update(msg)
		m.ctrl.SetLabels(m.labels.Value())
	}
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Up):
		m.ctrl.MoveUp()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.ctrl.MoveDown()
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.detail.ScrollUp(detailScrollStep)
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.detail.ScrollDown(detailScrollStep)
		return m, nil
	}

	if action, ok := m.keys.match(msg.String()); ok {
		return m.runAction(action)
	}
	return m, nil
}

// runAction executes a configured action.
func (m Model) runAction(action string) (tea.Model, tea.Cmd) {
	m.status = ""

	switch action {
	case config.ActionToggleRow:
		return m.toggleRow()
	case config.ActionToggleXML:
		if m.ctrl.ToggleRawXML() {
			m.refreshDetail()
		}
		return m, nil
	case config.ActionLoadXML:
		t, ok := m.ctrl.RequestRawXML()
		if !ok {
			return m, nil
		}
		m.refreshDetail()
		ctx := m.expandCtx
		return m, func() tea.Msg {
			return outcomeMsg{outcome: m.orch.LoadRawXML(ctx, t)}
		}
	case config.ActionCopyXML:
		e, ok := m.ctrl.Expanded()
		if !ok || e.RawXMLState != browse.LoadDone {
			m.status = "Load the XML before copying"
			return m, nil
		}
		text, write := e.RawXML, m.clipboard
		return m, func() tea.Msg {
			return copiedMsg{err: write(text)}
		}
	case config.ActionSearch:
		m.focus = focusSearch
		m.labels.Blur()
		cmd := m.search.Focus()
		return m, cmd
	case config.ActionLabels:
		m.focus = focusLabels
		m.search.Blur()
		cmd := m.labels.Focus()
		return m, cmd
	case config.ActionResolve:
		seq, labels := m.ctrl.BeginResolve()
		ctx := m.ctx
		return m, func() tea.Msg {
			return outcomeMsg{outcome: m.orch.Resolve(ctx, seq, labels)}
		}
	case config.ActionClearFilter:
		m.ctrl.ClearFilter()
		m.cancelExpand()
		m.refreshDetail()
		return m, nil
	case config.ActionReload:
		m.ctrl.BeginCatalog()
		return m, m.loadCatalog()
	}
	return m, nil
}

func (m Model) toggleRow() (tea.Model, tea.Cmd) {
	doc, ok := m.ctrl.Current()
	if !ok {
		return m, nil
	}

	m.cancelExpand()
	t, expanded := m.ctrl.SelectRow(doc.Path)
	m.detail.GotoTop()
	if !expanded {
		m.refreshDetail()
		return m, nil
	}

	ctx, cancel := context.WithCancel(logging.WithDMPath(m.ctx, doc.Path))
	m.expandCtx, m.expandCancel = ctx, cancel

	labels := m.ctrl.SelectedLabels()
	m.refreshDetail()
	return m, startStream(func() <-chan browse.Outcome {
		return m.orch.Expand(ctx, t, labels)
	})
}

func (m *Model) cancelExpand() {
	if m.expandCancel != nil {
		m.expandCancel()
		m.expandCancel = nil
	}
	m.expandCtx = m.ctx
}

func (m *Model) blurInputs() {
	m.focus = focusList
	m.search.Blur()
	m.labels.Blur()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.cancelExpand()
	m.quitting = true
	return m, tea.Quit
}

func (m Model) loadCatalog() tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return outcomeMsg{outcome: m.orch.LoadCatalog(ctx)}
	}
}
