package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/muesli/reflow/wordwrap"

	"github.com/mithrel/mriynyk/internal/render"
	"github.com/mithrel/mriynyk/pkg/api"
)

// TSV columns: id, student, subject, topic, created_unix_ms, quiz
var messageHeader = "id\tstudent\tsubject\ttopic\tcreated_unix_ms\tquiz\n"

// TSV columns: id, title, subtitle, created_unix_ms
var activityHeader = "id\ttitle\tsubtitle\tcreated_unix_ms\n"

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return wordwrap.String(s, width)
}

// WritePlainBlocks writes the visible text of each block, wrapped to width,
// with a blank line between blocks.
func WritePlainBlocks(w io.Writer, blocks []render.Block, width int) error {
	for i, b := range blocks {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, wrap(render.VisibleText(b.HTML), width)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// WritePlainPages is WritePlainBlocks with a separator line before every page.
func WritePlainPages(w io.Writer, pages []render.Page, width int) error {
	for i, p := range pages {
		if _, err := fmt.Fprintf(w, "--- page %d/%d (%d chars) ---\n", i+1, len(pages), p.Length); err != nil {
			return err
		}
		if err := WritePlainBlocks(w, p.Blocks, width); err != nil {
			return err
		}
	}
	return nil
}

func WritePlainMessages(w io.Writer, msgs []api.Message, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, messageHeader)
	}
	for _, m := range msgs {
		ms := m.CreatedAt.UnixNano() / int64(time.Millisecond)
		line := fmt.Sprintf("%s\t%s\t%s\t%s\t%d\t%d\n",
			esc(m.ID), esc(m.StudentID), esc(m.Subject), esc(m.Topic), ms, len(m.Quiz))
		_, _ = io.WriteString(tw, line)
	}
	return tw.Flush()
}

func WritePlainActivity(w io.Writer, items []api.Activity, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, activityHeader)
	}
	for _, a := range items {
		ms := a.CreatedAt.UnixNano() / int64(time.Millisecond)
		line := fmt.Sprintf("%s\t%s\t%s\t%d\n", esc(a.ID), esc(a.Title), esc(a.Subtitle), ms)
		_, _ = io.WriteString(tw, line)
	}
	return tw.Flush()
}

// WritePlainQuiz lists questions with lettered options; the correct one is
// marked when answers is set.
func WritePlainQuiz(w io.Writer, qs []api.QuizQuestion, answers bool) error {
	for i, q := range qs {
		if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, q.Text); err != nil {
			return err
		}
		for j, o := range q.Options {
			mark := " "
			if answers && j == 0 {
				mark = "*"
			}
			if _, err := fmt.Fprintf(w, "  %s %c) %s\n", mark, 'a'+rune(j), o); err != nil {
				return err
			}
		}
	}
	return nil
}
