package render

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

var (
	reCodeSpan = regexp.MustCompile("`([^`]+)`")
	reBold     = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	reItalic   = regexp.MustCompile(`\*([^*]+)\*`)
	reLink     = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	reShielded = regexp.MustCompile("\x00([0-9]+)\x00")
)

// shield marks a placeholder for an already rendered code span.
const shield = "\x00"

// Inline escapes one line of raw text and applies inline spans:
// code, bold, italic, then links. Unmatched delimiters stay literal.
func Inline(s string) string {
	s = strings.ReplaceAll(s, shield, "")
	s = html.EscapeString(s)

	// Code spans are swapped out so later patterns cannot match inside them.
	var spans []string
	s = reCodeSpan.ReplaceAllStringFunc(s, func(m string) string {
		spans = append(spans, "<code>"+m[1:len(m)-1]+"</code>")
		return shield + strconv.Itoa(len(spans)-1) + shield
	})

	s = reBold.ReplaceAllString(s, "<strong>$1</strong>")
	s = reItalic.ReplaceAllString(s, "<em>$1</em>")
	s = reLink.ReplaceAllStringFunc(s, renderLink)

	if len(spans) == 0 {
		return s
	}
	return reShielded.ReplaceAllStringFunc(s, func(m string) string {
		i, err := strconv.Atoi(m[1 : len(m)-1])
		if err != nil || i >= len(spans) {
			return ""
		}
		return spans[i]
	})
}

func renderLink(m string) string {
	sub := reLink.FindStringSubmatch(m)
	label, href := sub[1], sub[2]
	if !safeHref(href) {
		return m
	}
	return `<a href="` + href + `" target="_blank" rel="noopener noreferrer">` + label + `</a>`
}

// safeHref accepts relative references and http, https and mailto URLs.
// href is already HTML-escaped, so '<' or a shield byte means an earlier
// span matched inside it.
func safeHref(href string) bool {
	if strings.ContainsAny(href, shield+"<") {
		return false
	}
	raw := strings.ToLower(strings.TrimSpace(html.UnescapeString(href)))
	colon := strings.IndexByte(raw, ':')
	if colon < 0 {
		return true
	}
	if slash := strings.IndexAny(raw, "/?#"); slash >= 0 && slash < colon {
		return true
	}
	switch raw[:colon] {
	case "http", "https", "mailto":
		return true
	}
	return false
}
