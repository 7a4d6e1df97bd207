package present

import (
	"context"
	"errors"
	"io"

	"github.com/mithrel/mriynyk/internal/present/format"
	"github.com/mithrel/mriynyk/internal/present/tui"
	"github.com/mithrel/mriynyk/internal/reader"
	"github.com/mithrel/mriynyk/internal/render"
	"github.com/mithrel/mriynyk/internal/students"
	"github.com/mithrel/mriynyk/pkg/api"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeJSON
	ModeNDJSON
	ModeHTML
	ModeTUI
)

var ErrUnsupported = errors.New("output mode not supported here")

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
	// Pages groups output by page instead of by block.
	Pages bool
	Wrap  int
	Style string

	Title      string
	Reader     reader.Options
	ReaderMode reader.Mode
	RSVP       bool
	WheelDelta float64
}

// ParseMode parses a string like "plain", "pretty", "json", "ndjson", "html", "tui".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "plain":
		return ModePlain, true
	case "pretty":
		return ModePretty, true
	case "json":
		return ModeJSON, true
	case "ndjson":
		return ModeNDJSON, true
	case "html":
		return ModeHTML, true
	case "tui":
		return ModeTUI, true
	default:
		return ModePlain, false
	}
}

// RenderNote parses text into blocks and pages and writes it according to options.
func RenderNote(ctx context.Context, w io.Writer, text string, opts Options) error {
	if opts.Mode == ModeTUI {
		return tui.RenderReader(ctx, text, opts.Reader, tui.Options{
			Title:      opts.Title,
			Mode:       opts.ReaderMode,
			RSVP:       opts.RSVP,
			WheelDelta: opts.WheelDelta,
		})
	}
	if opts.Mode == ModePretty {
		return format.WritePrettyMarkdown(w, text, opts.Style, opts.Wrap)
	}

	blocks := render.Blocks(text)
	pages := render.Paginate(blocks, opts.Reader.MinPageChars)

	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONDocument(w, blocks, pages, opts.JSONIndent)
	case ModeNDJSON:
		if opts.Pages {
			return format.WriteNDJSONPages(w, pages)
		}
		return format.WriteNDJSONBlocks(w, blocks)
	case ModeHTML:
		if opts.Pages {
			return format.WriteHTMLPages(w, pages)
		}
		return format.WriteHTMLBlocks(w, blocks)
	default:
		if opts.Pages {
			return format.WritePlainPages(w, pages, opts.Wrap)
		}
		return format.WritePlainBlocks(w, blocks, opts.Wrap)
	}
}

// RenderMessages renders a list of stored messages.
func RenderMessages(ctx context.Context, w io.Writer, msgs []api.Message, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONMessages(w, msgs, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSONMessages(w, msgs)
	case ModePretty:
		for _, m := range msgs {
			if err := format.WritePrettyMessage(w, m, opts.Style, opts.Wrap); err != nil {
				return err
			}
		}
		return nil
	case ModeHTML, ModeTUI:
		return ErrUnsupported
	default:
		return format.WritePlainMessages(w, msgs, opts.Headers)
	}
}

// RenderActivity renders the activity log.
func RenderActivity(w io.Writer, items []api.Activity, opts Options) error {
	switch opts.Mode {
	case ModeJSON, ModeNDJSON:
		return format.WriteJSONActivity(w, items, opts.JSONIndent)
	case ModeHTML, ModeTUI:
		return ErrUnsupported
	default:
		return format.WritePlainActivity(w, items, opts.Headers)
	}
}

// RenderStudents renders the student roster.
func RenderStudents(w io.Writer, list []api.Student, opts Options) error {
	switch opts.Mode {
	case ModeJSON, ModeNDJSON:
		if list == nil {
			list = []api.Student{}
		}
		return format.WriteJSON(w, list, opts.JSONIndent)
	case ModeHTML, ModeTUI:
		return ErrUnsupported
	default:
		return format.WritePlainStudents(w, list, opts.Headers)
	}
}

// RenderReport renders one student's attendance and score summary; days is
// the recent window it was built with.
func RenderReport(w io.Writer, r students.Report, days int, opts Options) error {
	switch opts.Mode {
	case ModeJSON, ModeNDJSON:
		return format.WriteJSON(w, r, opts.JSONIndent)
	case ModePretty:
		return format.WritePrettyReport(w, r, days, opts.Style, opts.Wrap)
	case ModeHTML, ModeTUI:
		return ErrUnsupported
	default:
		return format.WritePlainReport(w, r, days)
	}
}

// RenderOverview renders class-wide averages, absences and top/bottom students.
func RenderOverview(w io.Writer, o api.Overview, opts Options) error {
	switch opts.Mode {
	case ModeJSON, ModeNDJSON:
		return format.WriteJSON(w, students.SortOverview(o), opts.JSONIndent)
	case ModePretty:
		return format.WritePrettyOverview(w, o, opts.Style, opts.Wrap)
	case ModeHTML, ModeTUI:
		return ErrUnsupported
	default:
		return format.WritePlainOverview(w, o)
	}
}
