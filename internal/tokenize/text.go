package tokenize

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// markupText strips tags from the rewritten table markup. Text is entity
// decoded and its whitespace collapsed; line-break tags become newlines.
func markupText(markup string) (string, error) {
	z := html.NewTokenizer(strings.NewReader(markup))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", err
			}
			return b.String(), nil
		case html.TextToken:
			if skip == 0 {
				writeCollapsed(&b, string(z.Text()))
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "br":
				b.WriteByte('\n')
			case "script", "style":
				skip++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style":
				if skip > 0 {
					skip--
				}
			}
		}
	}
}

// writeCollapsed appends s, folding whitespace runs into one space and
// dropping spaces that would follow a space or a line start.
func writeCollapsed(b *strings.Builder, s string) {
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' {
			if b.Len() == 0 {
				continue
			}
			last := b.String()[b.Len()-1]
			if last == ' ' || last == '\n' {
				continue
			}
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(r)
	}
}
