package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/mriynyk/internal/reader"
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// spread places left and right on one line of the given width.
func spread(left, right string, width int) string {
	space := width - lipgloss.Width(left) - lipgloss.Width(right)
	if space < 1 {
		space = 1
	}
	return left + strings.Repeat(" ", space) + right
}

func pageLabel(s *reader.Session) string {
	if s.PageCount() == 0 {
		return "0/0"
	}
	return fmt.Sprintf("%d/%d", s.PageIndex()+1, s.PageCount())
}
