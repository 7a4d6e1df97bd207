package format

import (
	"fmt"
	"io"

	"github.com/mithrel/mriynyk/internal/render"
)

// WriteHTMLBlocks writes each block fragment on its own line.
func WriteHTMLBlocks(w io.Writer, blocks []render.Block) error {
	for _, b := range blocks {
		if _, err := io.WriteString(w, b.HTML+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteHTMLPages writes pages separated by a comment carrying the page number.
func WriteHTMLPages(w io.Writer, pages []render.Page) error {
	for i, p := range pages {
		if _, err := fmt.Fprintf(w, "<!-- page %d/%d -->\n%s\n", i+1, len(pages), p.HTML()); err != nil {
			return err
		}
	}
	return nil
}
