package tui

import (
	"github.com/charmbracelet/lipgloss/v2"
)

var highlightStyle = lipgloss.NewStyle().Reverse(true).Bold(true)

// renderOverlay draws the RSVP box over base with its top-left corner at (x, y).
func (m model) renderOverlay(base, text string, x, y int) string {
	termW, termH := m.width, m.height
	if termW <= 0 {
		termW = 80
	}
	if termH <= 0 {
		termH = 24
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	fg := highlightStyle.Render(text)

	baseLayer := lipgloss.NewLayer(base).
		Width(termW).
		Height(termH)
	fgLayer := lipgloss.NewLayer(fg).
		Width(lipgloss.Width(fg)).
		Height(1).
		X(x).
		Y(y)

	return lipgloss.NewCanvas(baseLayer, fgLayer).Render()
}
