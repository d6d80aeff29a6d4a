package tui

import (
	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/dmview/internal/core/browse"
)

// outcomeMsg carries a settled backend call. When stream is set, more
// outcomes follow on it.
type outcomeMsg struct {
	outcome browse.Outcome
	stream  <-chan browse.Outcome
}

// copiedMsg reports a clipboard write.
type copiedMsg struct {
	err error
}

// waitForOutcome returns a command that waits for the next outcome on ch.
func waitForOutcome(ch <-chan browse.Outcome) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		o, ok := <-ch
		if !ok {
			// Channel closed, stop listening
			return nil
		}
		return outcomeMsg{outcome: o, stream: ch}
	}
}

// startStream returns a command that starts a streaming call and waits for
// its first outcome.
func startStream(start func() <-chan browse.Outcome) tea.Cmd {
	return func() tea.Msg {
		return waitForOutcome(start())()
	}
}
