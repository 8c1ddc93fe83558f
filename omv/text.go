package omv

import (
	"html"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// richText captures an element's raw inner markup so mixed content
// (inline links, code spans) can be flattened to plain text.
type richText struct {
	Raw string `xml:",innerxml"`
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// extractText flattens an element's mixed content to normalized plain
// text: tags stripped, entities decoded, Unicode normalized to NFC,
// whitespace collapsed.
func extractText(rt *richText) string {
	if rt == nil {
		return ""
	}
	return normalizeText(rt.Raw)
}

func normalizeText(raw string) string {
	text := tagPattern.ReplaceAllString(raw, "")
	text = html.UnescapeString(text)
	text = norm.NFC.String(text)
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}
