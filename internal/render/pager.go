package render

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultMinChars is the default visible-character threshold of a page.
const DefaultMinChars = 100

// BreakMarker separates the blocks of one page when the page is rendered.
const BreakMarker = `<hr class="block-break">`

// Page is a run of consecutive blocks packed to reach a minimum visible length.
type Page struct {
	Blocks []Block
	Length int
}

// HTML joins the page's blocks with BreakMarker.
func (p Page) HTML() string {
	return strings.Join(Strings(p.Blocks), BreakMarker)
}

// PageStrings returns the HTML of each page.
func PageStrings(pages []Page) []string {
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		out = append(out, p.HTML())
	}
	return out
}

// Join concatenates blocks without separators, as the full view shows them.
func Join(blocks []Block) string {
	return strings.Join(Strings(blocks), "")
}

// VisibleText strips all markup from an HTML fragment, decodes entities
// and collapses whitespace. Block-level tags count as whitespace.
func VisibleText(fragment string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a malformed tail; either way keep what was read.
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if isBlockTag(atom.Lookup(name)) {
				b.WriteByte(' ')
			}
		}
	}
}

// VisibleLength is the rune count of VisibleText.
func VisibleLength(fragment string) int {
	return utf8.RuneCountInString(VisibleText(fragment))
}

func isBlockTag(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Br, atom.Hr, atom.Li, atom.Ul, atom.Ol, atom.Pre,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Div:
		return true
	}
	return false
}

// Paginate packs blocks greedily into pages of at least minChars visible
// characters. A block that reaches the threshold alone starts and ends its
// own page; a short trailing page is kept. A threshold <= 0, or one that is
// at least the total visible length, yields a single page.
func Paginate(blocks []Block, minChars int) []Page {
	if len(blocks) == 0 {
		return nil
	}
	lengths := make([]int, len(blocks))
	total := 0
	for i, b := range blocks {
		lengths[i] = VisibleLength(b.HTML)
		total += lengths[i]
	}
	if minChars <= 0 || minChars >= total {
		return []Page{{Blocks: append([]Block(nil), blocks...), Length: total}}
	}

	var pages []Page
	var cur Page
	for i, b := range blocks {
		n := lengths[i]
		if len(cur.Blocks) == 0 && n >= minChars {
			pages = append(pages, Page{Blocks: []Block{b}, Length: n})
			continue
		}
		cur.Blocks = append(cur.Blocks, b)
		cur.Length += n
		if cur.Length >= minChars {
			pages = append(pages, cur)
			cur = Page{}
		}
	}
	if len(cur.Blocks) > 0 {
		pages = append(pages, cur)
	}
	return pages
}
