package tuitest

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
)

func TestStripANSI(t *testing.T) {
	in := "\x1b[31mDMC-A\x1b[0m   \nWheel  \n\n"
	assert.Equal(t, "DMC-A\nWheel", StripANSI(in))
}

func TestKeyPress(t *testing.T) {
	msg, ok := KeyPress('x').(tea.KeyPressMsg)
	assert.True(t, ok)
	assert.Equal(t, "x", msg.String())
}

func TestKeyPresses(t *testing.T) {
	msgs := KeyPresses("ab")
	assert.Len(t, msgs, 2)
	assert.Equal(t, "b", msgs[1].(tea.KeyPressMsg).String())
}

func TestSpecialKeys(t *testing.T) {
	assert.Equal(t, "enter", KeyEnter().(tea.KeyPressMsg).String())
	assert.Equal(t, "esc", KeyEsc().(tea.KeyPressMsg).String())
	assert.Equal(t, "down", KeyDown().(tea.KeyPressMsg).String())
	assert.Equal(t, "up", KeyUp().(tea.KeyPressMsg).String())
}

func TestSend(t *testing.T) {
	update := func(n int, msg tea.Msg) (int, tea.Cmd) {
		if _, ok := msg.(tea.KeyPressMsg); ok {
			return n + 1, func() tea.Msg { return nil }
		}
		return n, nil
	}

	n, cmds := Send(0, update, KeyPress('a'), WindowSize(80, 24), KeyEnter())
	assert.Equal(t, 2, n)
	assert.Len(t, cmds, 2)
}
