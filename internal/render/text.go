package render

import (
	"strings"

	"github.com/jaytaylor/html2text"
	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StripTagsPolicy()

// PlainText converts HTML to readable terminal text. Unparseable input is returned with tags stripped.
func PlainText(htmlText string) string {
	text, err := html2text.FromString(htmlText, html2text.Options{OmitLinks: false})
	if err != nil {
		return strings.TrimSpace(stripPolicy.Sanitize(htmlText))
	}
	return strings.TrimSpace(text)
}

// AIResponseText renders an AI answer for the terminal
func AIResponseText(text string) string {
	return PlainText(FormatAIResponse(text))
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis
func Truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
