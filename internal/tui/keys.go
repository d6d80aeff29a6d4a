package tui

import (
	"slices"
	"strings"

	"charm.land/bubbles/v2/key"

	"github.com/colonyops/dmview/internal/core/config"
)

// actionOrder is the order actions appear in the help line.
var actionOrder = []string{
	config.ActionToggleRow,
	config.ActionSearch,
	config.ActionLabels,
	config.ActionResolve,
	config.ActionClearFilter,
	config.ActionToggleXML,
	config.ActionLoadXML,
	config.ActionCopyXML,
	config.ActionReload,
}

// keyMap holds the fixed navigation bindings and the configurable action
// bindings.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding

	actions map[string]key.Binding // action name -> binding
}

func newKeyMap(cfg *config.Config) keyMap {
	km := keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "scroll up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "scroll down")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		actions:  make(map[string]key.Binding, len(actionOrder)),
	}

	for _, action := range actionOrder {
		keys := cfg.KeysFor(action)
		if len(keys) == 0 {
			continue
		}
		help := cfg.Keybindings[keys[0]].Help
		if help == "" {
			help = action
		}
		km.actions[action] = key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(strings.Join(keys, "/"), help),
		)
	}

	return km
}

// match returns the action bound to keyStr.
func (k keyMap) match(keyStr string) (string, bool) {
	for _, action := range actionOrder {
		if b, ok := k.actions[action]; ok && slices.Contains(b.Keys(), keyStr) {
			return action, true
		}
	}
	return "", false
}

// ShortHelp lists the bindings shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	bindings := []key.Binding{k.Up, k.Down}
	for _, action := range actionOrder {
		if b, ok := k.actions[action]; ok {
			bindings = append(bindings, b)
		}
	}
	return append(bindings, k.PageDown, k.Quit)
}

func (k keyMap) helpLine() string {
	parts := make([]string, 0, len(k.actions)+4)
	for _, b := range k.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
