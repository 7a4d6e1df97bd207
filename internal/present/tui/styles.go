package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	bold     lipgloss.Style
	italic   lipgloss.Style
	code     lipgloss.Style
	link     lipgloss.Style
	heading  lipgloss.Style
	rule     lipgloss.Style
	faint    lipgloss.Style
	title    lipgloss.Style
	status   lipgloss.Style
	disabled lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		bold:     lipgloss.NewStyle().Bold(true),
		italic:   lipgloss.NewStyle().Italic(true),
		code:     lipgloss.NewStyle().Foreground(lipgloss.Color("180")),
		link:     lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true),
		heading:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		rule:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		faint:    lipgloss.NewStyle().Faint(true),
		title:    lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1),
		status:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		disabled: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}

func (st *styles) segment(s segment) string {
	if st == nil || s.style == 0 {
		return s.text
	}
	out := lipgloss.NewStyle()
	if s.style&styleHeading != 0 {
		out = st.heading
	}
	if s.style&styleBold != 0 {
		out = out.Bold(true)
	}
	if s.style&styleItalic != 0 {
		out = out.Italic(true)
	}
	if s.style&styleCode != 0 {
		out = out.Inherit(st.code)
	}
	if s.style&styleLink != 0 {
		out = out.Inherit(st.link)
	}
	return out.Render(s.text)
}

const ruleWidth = 24

// renderLine draws one layout line; st == nil draws plain text.
func renderLine(ln textLine, width int, st *styles) string {
	switch ln.kind {
	case lineBlank:
		return ""
	case lineRule:
		n := ruleWidth
		if width > 0 && width < n {
			n = width
		}
		r := strings.Repeat("─", n)
		if st != nil {
			return st.rule.Render(r)
		}
		return r
	case lineCode:
		if st != nil {
			return ln.prefix + st.code.Render(ln.raw)
		}
		return ln.prefix + ln.raw
	}
	var b strings.Builder
	prefix := ln.prefix
	if st != nil && len(ln.words) > 0 && ln.words[0].segs[0].style&styleHeading != 0 {
		prefix = st.heading.Render(prefix)
	}
	b.WriteString(prefix)
	for i, w := range ln.words {
		if i > 0 {
			b.WriteByte(' ')
		}
		for _, s := range w.segs {
			b.WriteString(st.segment(s))
		}
	}
	return b.String()
}
