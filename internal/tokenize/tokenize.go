// Package tokenize rewrites a located timetable into a line-oriented token
// stream and classifies its layout.
package tokenize

import (
	"fmt"
	"strings"

	"github.com/hyperifyio/gotimetable/internal/timetable"
)

// Result is the token stream of one table.
type Result struct {
	Template timetable.Template
	Lines    []string
}

// Text joins the stream back into newline separated form.
func (r Result) Text() string { return strings.Join(r.Lines, "\n") }

// bannerFallbackRunes is how far past the date anchor the grid starts when no
// session label is present.
const bannerFallbackRunes = 23

// Tokenize rewrites single-line table markup into the marker stream.
func Tokenize(markup string) (Result, error) {
	if strings.TrimSpace(markup) == "" {
		return Result{Template: timetable.TemplateA}, timetable.ErrNoTableContent
	}
	text, err := markupText(markupRules.apply(markup))
	if err != nil {
		return Result{Template: timetable.TemplateA}, fmt.Errorf("strip markup: %w", err)
	}
	template := DetectTemplate(text)

	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = strings.ReplaceAll(text, breakMarker, "\n")
	if template == timetable.TemplateD {
		text = todoRe.ReplaceAllString(text, Todo+"\n"+Terminal)
	}

	text, ok := stripBanner(text)
	if !ok {
		return Result{Template: template}, timetable.ErrUndefinedStructure
	}

	if template == timetable.TemplateD {
		text = todoRules.apply(text)
	} else {
		text = periodRules.apply(text)
	}
	text = sessionRules.apply(text)
	text += "\n" + WrapTOE

	return Result{Template: template, Lines: keepFilledRows(strings.Split(text, "\n"))}, nil
}

// DetectTemplate classifies plain table text: the diagonal corner glyph
// means template c, a combined period/time header means template d.
func DetectTemplate(text string) timetable.Template {
	template := timetable.TemplateA
	if strings.Contains(text, "╲") {
		template = timetable.TemplateC
	}
	if strings.Contains(text, "节次") {
		template = timetable.TemplateD
	}
	return template
}

// stripBanner removes the date and weekday header preceding the grid. The
// session label (上午, 下午 or 中午) anchors the cut; tables without one are cut
// a fixed distance after the date anchor.
func stripBanner(text string) (string, bool) {
	runes := []rune(text)
	if i := indexRune(runes, '午'); i >= 1 {
		return WrapHead + "\n" + string(runes[i-1:]), true
	}
	if i := indexRune(runes, '日'); i >= 0 && i+bannerFallbackRunes <= len(runes) {
		return string(runes[i+bannerFallbackRunes:]), true
	}
	return "", false
}

func indexRune(runes []rune, r rune) int {
	for i, c := range runes {
		if c == r {
			return i
		}
	}
	return -1
}

// keepFilledRows drops every row, a run of lines ending in a wrapTOE line,
// that holds no filled cell.
func keepFilledRows(lines []string) []string {
	var out, row []string
	filled := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		row = append(row, line)
		if strings.HasSuffix(line, Filled) {
			filled = true
		}
		if strings.HasSuffix(line, WrapTOE) {
			if filled {
				out = append(out, row...)
			}
			row = nil
			filled = false
		}
	}
	return out
}
