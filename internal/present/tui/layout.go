package tui

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/mithrel/mriynyk/internal/reader"
)

type segStyle uint8

const (
	styleBold segStyle = 1 << iota
	styleItalic
	styleCode
	styleLink
	styleHeading
)

type segment struct {
	text  string
	style segStyle
}

// word is a maximal non-whitespace run; inline tags may split it into segments.
type word struct {
	segs []segment
	x, w int
}

func (w word) text() string {
	var b strings.Builder
	for _, s := range w.segs {
		b.WriteString(s.text)
	}
	return b.String()
}

type lineKind int

const (
	lineText lineKind = iota
	lineCode
	lineRule
	lineBlank
)

type textLine struct {
	kind   lineKind
	prefix string
	words  []word
	raw    string
}

// layout is a block of HTML flowed into terminal cells.
type layout struct {
	width int
	lines []textLine
}

type listState struct {
	ordered bool
	n       int
}

type flower struct {
	width int
	out   []textLine

	words  []word
	prefix string
	glue   bool

	bold, italic, code, link int
	heading                  bool
	lists                    []listState
	pre                      bool
	preText                  strings.Builder
}

// layoutHTML flows an HTML fragment produced by the render package into
// lines of at most width cells. width <= 0 disables wrapping.
func layoutHTML(src string, width int) layout {
	f := &flower{width: width}
	z := html.NewTokenizer(strings.NewReader(src))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		switch tt {
		case html.TextToken:
			f.text(string(z.Text()))
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			f.start(atom.Lookup(name))
		case html.EndTagToken:
			name, _ := z.TagName()
			f.end(atom.Lookup(name))
		}
	}
	f.flush()
	if f.pre {
		f.flushPre()
	}
	return layout{width: width, lines: f.out}
}

func (f *flower) start(a atom.Atom) {
	switch a {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		f.flush()
		f.blank()
		f.heading = true
		level, _ := strconv.Atoi(a.String()[1:])
		f.prefix = strings.Repeat("#", level) + " "
	case atom.P:
		f.flush()
		f.blank()
	case atom.Ul, atom.Ol:
		f.flush()
		if len(f.lists) == 0 {
			f.blank()
		}
		f.lists = append(f.lists, listState{ordered: a == atom.Ol})
	case atom.Li:
		f.flush()
		indent := ""
		if len(f.lists) > 1 {
			indent = strings.Repeat("  ", len(f.lists)-1)
		}
		marker := "• "
		if n := len(f.lists); n > 0 {
			l := &f.lists[n-1]
			l.n++
			if l.ordered {
				marker = strconv.Itoa(l.n) + ". "
			}
		}
		f.prefix = indent + marker
	case atom.Pre:
		f.flush()
		f.blank()
		f.pre = true
		f.preText.Reset()
	case atom.Code:
		if !f.pre {
			f.code++
		}
	case atom.Strong, atom.B:
		f.bold++
	case atom.Em, atom.I:
		f.italic++
	case atom.A:
		f.link++
	case atom.Br:
		f.flush()
	case atom.Hr:
		f.flush()
		f.blank()
		f.out = append(f.out, textLine{kind: lineRule})
	}
}

func (f *flower) end(a atom.Atom) {
	switch a {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		f.flush()
		f.heading = false
	case atom.P, atom.Li:
		f.flush()
	case atom.Ul, atom.Ol:
		f.flush()
		if n := len(f.lists); n > 0 {
			f.lists = f.lists[:n-1]
		}
	case atom.Pre:
		f.flushPre()
	case atom.Code:
		if !f.pre && f.code > 0 {
			f.code--
		}
	case atom.Strong, atom.B:
		if f.bold > 0 {
			f.bold--
		}
	case atom.Em, atom.I:
		if f.italic > 0 {
			f.italic--
		}
	case atom.A:
		if f.link > 0 {
			f.link--
		}
	}
}

func (f *flower) style() segStyle {
	var s segStyle
	if f.bold > 0 {
		s |= styleBold
	}
	if f.italic > 0 {
		s |= styleItalic
	}
	if f.code > 0 {
		s |= styleCode
	}
	if f.link > 0 {
		s |= styleLink
	}
	if f.heading {
		s |= styleHeading
	}
	return s
}

func (f *flower) text(t string) {
	if f.pre {
		f.preText.WriteString(t)
		return
	}
	if t == "" {
		return
	}
	first, _ := utf8.DecodeRuneInString(t)
	last, _ := utf8.DecodeLastRuneInString(t)
	fields := strings.Fields(t)
	st := f.style()
	for i, field := range fields {
		seg := segment{text: field, style: st}
		if i == 0 && f.glue && !unicode.IsSpace(first) && len(f.words) > 0 {
			w := &f.words[len(f.words)-1]
			w.segs = append(w.segs, seg)
			continue
		}
		f.words = append(f.words, word{segs: []segment{seg}})
	}
	f.glue = !unicode.IsSpace(last) && len(fields) > 0
}

// flush wraps pending words into lines. Continuation lines are indented
// to the width of the prefix.
func (f *flower) flush() {
	defer func() {
		f.words = nil
		f.prefix = ""
		f.glue = false
	}()
	if len(f.words) == 0 {
		return
	}
	pw := runewidth.StringWidth(f.prefix)
	cur := textLine{kind: lineText, prefix: f.prefix}
	x := pw
	for _, w := range f.words {
		w.w = runewidth.StringWidth(w.text())
		if len(cur.words) > 0 && f.width > 0 && x+1+w.w > f.width {
			f.out = append(f.out, cur)
			cur = textLine{kind: lineText, prefix: strings.Repeat(" ", pw)}
			x = pw
		}
		if len(cur.words) > 0 {
			x++
		}
		w.x = x
		cur.words = append(cur.words, w)
		x += w.w
	}
	f.out = append(f.out, cur)
}

func (f *flower) flushPre() {
	f.pre = false
	body := f.preText.String()
	f.preText.Reset()
	for _, l := range strings.Split(body, "\n") {
		f.out = append(f.out, codeLine(l))
	}
}

const codeIndent = "  "

// codeLine keeps the raw text and records the cell position of each word.
func codeLine(raw string) textLine {
	raw = strings.ReplaceAll(raw, "\t", "    ")
	ln := textLine{kind: lineCode, prefix: codeIndent, raw: raw}
	col := runewidth.StringWidth(codeIndent)
	var cur strings.Builder
	start := 0
	emit := func() {
		if cur.Len() == 0 {
			return
		}
		s := cur.String()
		ln.words = append(ln.words, word{segs: []segment{{text: s, style: styleCode}}, x: start, w: runewidth.StringWidth(s)})
		cur.Reset()
	}
	for _, r := range raw {
		if unicode.IsSpace(r) {
			emit()
			col += runewidth.RuneWidth(r)
			continue
		}
		if cur.Len() == 0 {
			start = col
		}
		cur.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	emit()
	return ln
}

func (f *flower) blank() {
	if n := len(f.out); n > 0 && f.out[n-1].kind != lineBlank {
		f.out = append(f.out, textLine{kind: lineBlank})
	}
}

// rects returns one box per word, in document order, relative to the first line.
func (l layout) rects() []reader.Rect {
	var out []reader.Rect
	for y, ln := range l.lines {
		for _, w := range ln.words {
			out = append(out, reader.Rect{X: w.x, Y: y, W: w.w, H: 1})
		}
	}
	return out
}

// wordAt returns the word whose box starts at r.
func (l layout) wordAt(r reader.Rect) (word, bool) {
	if r.Y < 0 || r.Y >= len(l.lines) {
		return word{}, false
	}
	for _, w := range l.lines[r.Y].words {
		if w.x == r.X {
			return w, true
		}
	}
	return word{}, false
}

// plain renders the layout without styling.
func (l layout) plain() []string {
	out := make([]string, 0, len(l.lines))
	for _, ln := range l.lines {
		out = append(out, renderLine(ln, l.width, nil))
	}
	return out
}

// termMeasurer measures words the way the reader lays them out.
type termMeasurer struct {
	width int
}

func (m *termMeasurer) MeasureWords(r reader.Region) []reader.Rect {
	return layoutHTML(r.HTML, m.width).rects()
}
