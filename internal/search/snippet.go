package search

import (
	"strings"

	"golang.org/x/net/html"
)

// stripTags removes markup from a snippet, keeping only text content.
// Custom Search may return <b> highlighting and HTML entities in snippets.
func stripTags(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	var sb strings.Builder
	tok := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := tok.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			sb.Write(tok.Text())
		}
	}
	return sb.String()
}
