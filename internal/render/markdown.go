package render

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies the structural unit a Block was rendered from.
type Kind int

const (
	KindHeading Kind = iota + 1
	KindParagraph
	KindList
	KindCode
)

func (k Kind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindList:
		return "list"
	case KindCode:
		return "code"
	default:
		return "unknown"
	}
}

// Block is one rendered HTML fragment. Blocks are produced in document order.
type Block struct {
	Kind Kind
	HTML string
}

func (b Block) String() string { return b.HTML }

// Strings returns the HTML of each block.
func Strings(blocks []Block) []string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, b.HTML)
	}
	return out
}

var (
	reFenceOpen  = regexp.MustCompile("^\\s*```(.*)$")
	reFenceClose = regexp.MustCompile("^\\s*```\\s*$")
	reHeading    = regexp.MustCompile(`^(#{1,4})\s+(.*)$`)
	reOrdered    = regexp.MustCompile(`^\d+[.)]\s+(.*)$`)
	reUnordered  = regexp.MustCompile(`^[-*]\s+(.*)$`)
)

type listKind int

const (
	listNone listKind = iota
	listOrdered
	listUnordered
)

type parser struct {
	out []Block

	para []string

	list  listKind
	items strings.Builder

	inCode bool
	code   []string
	lang   string
}

// Blocks parses Markdown-like text into HTML blocks. Malformed syntax
// degrades to paragraph text; empty input yields no blocks.
func Blocks(src string) []Block {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.ReplaceAll(src, "\r", "\n")

	var p parser
	for _, line := range strings.Split(src, "\n") {
		p.line(line)
	}
	p.finish()
	return p.out
}

func (p *parser) line(raw string) {
	if p.inCode {
		if reFenceClose.MatchString(raw) {
			p.closeCode()
			return
		}
		p.code = append(p.code, raw)
		return
	}
	if m := reFenceOpen.FindStringSubmatch(raw); m != nil {
		p.flushParagraph()
		p.closeList()
		p.inCode = true
		p.code = nil
		p.lang = ""
		if f := strings.Fields(m[1]); len(f) > 0 {
			p.lang = f[0]
		}
		return
	}

	line := strings.TrimSpace(raw)
	if line == "" {
		p.flushParagraph()
		p.closeList()
		return
	}
	if m := reHeading.FindStringSubmatch(line); m != nil {
		p.flushParagraph()
		p.closeList()
		level := strconv.Itoa(len(m[1]))
		p.emit(KindHeading, "<h"+level+">"+Inline(strings.TrimSpace(m[2]))+"</h"+level+">")
		return
	}
	if m := reOrdered.FindStringSubmatch(line); m != nil {
		p.flushParagraph()
		p.openList(listOrdered)
		p.items.WriteString("<li>" + Inline(m[1]) + "</li>")
		return
	}
	if m := reUnordered.FindStringSubmatch(line); m != nil {
		p.flushParagraph()
		p.openList(listUnordered)
		p.items.WriteString("<li>" + Inline(m[1]) + "</li>")
		return
	}
	p.closeList()
	p.para = append(p.para, line)
}

func (p *parser) finish() {
	if p.inCode {
		p.closeCode()
	}
	p.flushParagraph()
	p.closeList()
}

func (p *parser) emit(k Kind, s string) {
	p.out = append(p.out, Block{Kind: k, HTML: s})
}

// flushParagraph formats each buffered line on its own, so inline spans
// never cross a line boundary.
func (p *parser) flushParagraph() {
	if len(p.para) == 0 {
		return
	}
	lines := make([]string, 0, len(p.para))
	for _, l := range p.para {
		lines = append(lines, Inline(l))
	}
	p.para = p.para[:0]
	p.emit(KindParagraph, "<p>"+strings.Join(lines, "<br>")+"</p>")
}

func (p *parser) openList(k listKind) {
	if p.list == k {
		return
	}
	p.closeList()
	p.list = k
	p.items.Reset()
	p.items.WriteString(listTag(k, false))
}

func (p *parser) closeList() {
	if p.list == listNone {
		return
	}
	p.items.WriteString(listTag(p.list, true))
	p.emit(KindList, p.items.String())
	p.items.Reset()
	p.list = listNone
}

func listTag(k listKind, closing bool) string {
	name := "ul"
	if k == listOrdered {
		name = "ol"
	}
	if closing {
		return "</" + name + ">"
	}
	return "<" + name + ">"
}

func (p *parser) closeCode() {
	class := ""
	if p.lang != "" {
		class = ` class="language-` + html.EscapeString(p.lang) + `"`
	}
	body := html.EscapeString(strings.Join(p.code, "\n"))
	p.emit(KindCode, "<pre><code"+class+">"+body+"</code></pre>")
	p.inCode = false
	p.code = nil
	p.lang = ""
}
