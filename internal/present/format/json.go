package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/mriynyk/internal/render"
	"github.com/mithrel/mriynyk/pkg/api"
)

// Document is the JSON shape of a rendered note.
func Document(blocks []render.Block, pages []render.Page) api.RenderResult {
	return api.RenderResult{
		Blocks: render.Strings(blocks),
		Pages:  render.PageStrings(pages),
	}
}

func WriteJSONDocument(w io.Writer, blocks []render.Block, pages []render.Page, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(Document(blocks, pages))
}

func WriteJSONMessages(w io.Writer, msgs []api.Message, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	if msgs == nil {
		msgs = []api.Message{}
	}
	return enc.Encode(msgs)
}

func WriteJSONActivity(w io.Writer, items []api.Activity, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	if items == nil {
		items = []api.Activity{}
	}
	return enc.Encode(items)
}
