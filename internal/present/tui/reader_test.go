package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/mriynyk/internal/reader"
)

func sampleNote() string {
	var b strings.Builder
	b.WriteString("# Fractions\n\n")
	for i := 0; i < 4; i++ {
		b.WriteString(strings.Repeat("A fraction names a part of a whole quantity. ", 3))
		b.WriteString("\n\n")
	}
	return b.String()
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(model)
	require.True(t, ok)
	return out, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestReaderModeKeysKeepPage(t *testing.T) {
	m := newModel(sampleNote(), reader.DefaultOptions(), Options{Mode: reader.ModeSingle})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	require.Greater(t, m.session.PageCount(), 2)

	m, _ = update(t, m, key("right"))
	m, _ = update(t, m, key("right"))
	assert.Equal(t, 2, m.session.PageIndex())

	m, _ = update(t, m, key("w"))
	assert.Equal(t, reader.ModeFeed, m.session.Mode())
	assert.Equal(t, 2, m.session.PageIndex())

	m, _ = update(t, m, key("f"))
	assert.Equal(t, reader.ModeFull, m.session.Mode())
	assert.Contains(t, m.View(), "full")
}

func TestReaderFeedWheel(t *testing.T) {
	m := newModel(sampleNote(), reader.DefaultOptions(), Options{Mode: reader.ModeFeed})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})

	wheel := tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown}
	m, _ = update(t, m, wheel)
	assert.Equal(t, 1, m.session.PageIndex())
	// Inside the cooldown window.
	m, _ = update(t, m, wheel)
	assert.Equal(t, 1, m.session.PageIndex())
}

func TestReaderRSVPLifecycle(t *testing.T) {
	m := newModel(sampleNote(), reader.DefaultOptions(), Options{Mode: reader.ModeSingle, RSVP: true})
	m, cmd := update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	require.NotNil(t, cmd, "first size message starts the requested run")
	require.True(t, m.session.RSVP())

	h := m.session.Handle()
	m, cmd = update(t, m, rsvpTickMsg{handle: h})
	require.NotNil(t, cmd)
	box, ok := m.session.Box()
	require.True(t, ok)
	w, ok := m.lay.wordAt(box)
	require.True(t, ok)
	assert.Equal(t, "Fractions", w.text())
	assert.NotEmpty(t, m.View())

	// Switching mode restarts against the new view; the old handle goes stale.
	m, cmd = update(t, m, key("s"))
	assert.Nil(t, cmd, "same mode is a no-op")
	m, cmd = update(t, m, key("w"))
	require.NotNil(t, cmd)
	assert.True(t, m.session.RSVP())
	m, cmd = update(t, m, rsvpTickMsg{handle: h})
	assert.Nil(t, cmd)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 20})
	assert.False(t, m.session.RSVP())
	assert.Equal(t, "RSVP stopped: window resized", m.status)
}

func TestReaderToggleRSVPKey(t *testing.T) {
	m := newModel(sampleNote(), reader.DefaultOptions(), Options{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	m, cmd := update(t, m, key("r"))
	require.NotNil(t, cmd)
	assert.Equal(t, "RSVP on", m.status)
	m, _ = update(t, m, key("r"))
	assert.False(t, m.session.RSVP())
	assert.Equal(t, "RSVP off", m.status)
}

func TestReaderEmptyNote(t *testing.T) {
	m := newModel("", reader.DefaultOptions(), Options{Mode: reader.ModeSingle})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 10})
	assert.Contains(t, m.View(), "No content yet.")
	assert.Contains(t, m.View(), "0/0")
}
