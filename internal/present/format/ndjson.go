package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/mriynyk/internal/render"
	"github.com/mithrel/mriynyk/pkg/api"
)

type blockLine struct {
	Index int    `json:"index"`
	Kind  string `json:"kind"`
	HTML  string `json:"html"`
}

type pageLine struct {
	Index  int    `json:"index"`
	Length int    `json:"length"`
	HTML   string `json:"html"`
}

// WriteNDJSONBlocks writes one JSON object per block.
func WriteNDJSONBlocks(w io.Writer, blocks []render.Block) error {
	enc := json.NewEncoder(w)
	for i, b := range blocks {
		if err := enc.Encode(blockLine{Index: i, Kind: b.Kind.String(), HTML: b.HTML}); err != nil {
			return err
		}
	}
	return nil
}

// WriteNDJSONPages writes one JSON object per page.
func WriteNDJSONPages(w io.Writer, pages []render.Page) error {
	enc := json.NewEncoder(w)
	for i, p := range pages {
		if err := enc.Encode(pageLine{Index: i, Length: p.Length, HTML: p.HTML()}); err != nil {
			return err
		}
	}
	return nil
}

// WriteNDJSONMessages writes messages as newline-delimited JSON objects.
func WriteNDJSONMessages(w io.Writer, msgs []api.Message) error {
	enc := json.NewEncoder(w)
	for _, m := range msgs {
		if err := enc.Encode(m); err != nil {
			return err
		}
	}
	return nil
}
