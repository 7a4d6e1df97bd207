package format

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/mithrel/mriynyk/pkg/api"
)

const (
	DefaultStyle = "dracula"
	DefaultWrap  = 80
)

// WritePrettyMarkdown renders raw note text with glamour.
func WritePrettyMarkdown(w io.Writer, text, style string, width int) error {
	if style == "" {
		style = DefaultStyle
	}
	if width <= 0 {
		width = DefaultWrap
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	out, err := r.Render(text)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	_, err = io.WriteString(w, out)
	return err
}

// WritePrettyMessage renders one stored message with a metadata header.
func WritePrettyMessage(w io.Writer, m api.Message, style string, width int) error {
	ts := m.CreatedAt.Local().Format(time.RFC3339)
	md := fmt.Sprintf(`# %s

> **ID:** %s | **Student:** %s | **Created:** %s
>
> **Subject:** %s | **Quiz:** %d questions

---

%s
`, m.Topic, m.ID, m.StudentID, ts, m.Subject, len(m.Quiz), strings.TrimSpace(m.Output))
	return WritePrettyMarkdown(w, md, style, width)
}
