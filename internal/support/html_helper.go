package support

import (
	"strings"

	"golang.org/x/net/html"
)

// Table sites list the address and port in neighbouring cells, so cell
// boundaries within a row collapse to ":" and row ends to line breaks. That way
// "1.2.3.4</td><td>8080" survives as the single endpoint 1.2.3.4:8080.
var cellSeparators = map[string]struct{}{"td": {}, "th": {}}

var lineBreakers = map[string]struct{}{
	"tr": {}, "p": {}, "div": {}, "li": {}, "br": {},
	"table": {}, "pre": {}, "h1": {}, "h2": {}, "h3": {},
}

var skippedContent = map[string]struct{}{"script": {}, "style": {}, "noscript": {}}

// TextOfHTML flattens raw HTML into plain text ready for endpoint extraction.
// Entities are decoded by the tokenizer, script and style bodies are dropped.
// Text runs separated only by inline tags get a space between them so addresses
// never fuse with neighbouring words. Invalid markup never fails; the tokenizer
// simply emits what it can.
func TextOfHTML(rawHTML string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(rawHTML))

	var builder strings.Builder
	var skipDepth int
	pendingCell := false
	lastWasText := false

	for {
		tokenType := tokenizer.Next()
		if tokenType == html.ErrorToken {
			return builder.String()
		}

		switch tokenType {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)

			if _, skip := skippedContent[tag]; skip && tokenType == html.StartTagToken {
				skipDepth++
				continue
			}
			if _, cell := cellSeparators[tag]; cell {
				if pendingCell {
					builder.WriteString(":")
					lastWasText = false
				}
				pendingCell = true
				continue
			}
			if _, breaks := lineBreakers[tag]; breaks {
				builder.WriteString("\n")
				pendingCell = false
				lastWasText = false
			}

		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)

			if _, skip := skippedContent[tag]; skip && skipDepth > 0 {
				skipDepth--
				continue
			}
			if _, breaks := lineBreakers[tag]; breaks {
				builder.WriteString("\n")
				pendingCell = false
				lastWasText = false
			}

		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			text := strings.TrimSpace(string(tokenizer.Text()))
			if text == "" {
				continue
			}
			if lastWasText {
				builder.WriteString(" ")
			}
			builder.WriteString(text)
			lastWasText = true
		}
	}
}
