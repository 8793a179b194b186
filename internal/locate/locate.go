// Package locate finds the timetable grid inside captured page markup.
package locate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gotimetable/internal/timetable"
)

// Result is the recognized table plus the header labels that qualified it.
type Result struct {
	// Markup is the table's outer HTML on a single line with inter-tag
	// whitespace removed.
	Markup string
	// Periods maps a row index to every period label found on that row.
	Periods map[int][]timetable.Period
	// Weekdays maps a column index to a weekday ordinal, 0 for Sunday.
	Weekdays map[int]int
}

var (
	periodLabelRe = regexp.MustCompile(`^(?:(第?((\d,?\d?)|(十?[一二三四五六七八九十]))节)|(\d\d?))\s?\(?(\d\d?:\d\d-\d\d?:\d\d)?\)?$`)
	timeRangeRe   = regexp.MustCompile(`\d{1,2}:\d{2}-\d{1,2}:\d{2}`)
	periodPartRe  = regexp.MustCompile(`(\d,?\d?)|(十?[一二三四五六七八九十])|(^\d{1,2})`)
	numberRe      = regexp.MustCompile(`^\d{1,2}$`)
	cnNumberRe    = regexp.MustCompile(`^十?[一二三四五六七八九十]$`)
	interTagRe    = regexp.MustCompile(`>[ \t]*<`)
)

var weekdayNames = map[string]int{
	"星期日": 0,
	"星期一": 1,
	"星期二": 2,
	"星期三": 3,
	"星期四": 4,
	"星期五": 5,
	"星期六": 6,
}

var ignorableLabels = map[string]bool{
	"时间":    true,
	"节次":    true,
	"节次/时间": true,
	"╲":     true,
}

var cnDigits = strings.NewReplacer(
	"一", "1", "二", "2", "三", "3", "四", "4", "五", "5",
	"六", "6", "七", "7", "八", "8", "九", "9",
)

// FromHTML parses markup and locates the timetable in it.
func FromHTML(markup string) (*Result, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, timetable.ErrNoTableContent
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	return Locate(doc)
}

// Locate returns the first table, in document order and then inside embedded
// frames, whose header cells yield at least one period row and one weekday
// column.
func Locate(doc *goquery.Document) (*Result, error) {
	for _, table := range candidateTables(doc.Selection) {
		res := decode(table)
		if len(res.Periods) == 0 || len(res.Weekdays) == 0 {
			continue
		}
		html, err := goquery.OuterHtml(table)
		if err != nil {
			return nil, fmt.Errorf("render table: %w", err)
		}
		html = strings.ReplaceAll(html, "\n", "")
		res.Markup = interTagRe.ReplaceAllString(html, "><")
		log.Debug().Int("periodRows", len(res.Periods)).Int("weekdayColumns", len(res.Weekdays)).Msg("timetable located")
		return res, nil
	}
	return nil, timetable.ErrNoTableContent
}

func candidateTables(root *goquery.Selection) []*goquery.Selection {
	var tables []*goquery.Selection
	root.Find("table").Each(func(_ int, s *goquery.Selection) {
		tables = append(tables, s)
	})
	root.Find("iframe").Each(func(_ int, frame *goquery.Selection) {
		for _, src := range []string{frame.AttrOr("srcdoc", ""), frame.Text()} {
			if !strings.Contains(src, "<table") {
				continue
			}
			inner, err := goquery.NewDocumentFromReader(strings.NewReader(src))
			if err != nil {
				log.Debug().Err(err).Msg("iframe content not parseable")
				continue
			}
			tables = append(tables, candidateTables(inner.Selection)...)
		}
	})
	return tables
}

// decode walks row groups, rows and cells, tracking a column cursor that
// skips past each cell's colspan, and classifies every header-like cell.
func decode(table *goquery.Selection) *Result {
	res := &Result{Periods: map[int][]timetable.Period{}, Weekdays: map[int]int{}}
	row := 0
	table.ChildrenFiltered("thead, tbody, tfoot").Each(func(_ int, group *goquery.Selection) {
		group.ChildrenFiltered("tr").Each(func(_ int, tr *goquery.Selection) {
			col := 0
			tr.ChildrenFiltered("td, th").Each(func(_ int, cell *goquery.Selection) {
				classify(res, cellText(cell), col, row)
				col += span(cell, "colspan")
			})
			row++
		})
	})
	return res
}

func span(cell *goquery.Selection, attr string) int {
	n, err := strconv.Atoi(strings.TrimSpace(cell.AttrOr(attr, "1")))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func cellText(cell *goquery.Selection) string {
	return strings.Join(strings.Fields(cell.Text()), " ")
}

func classify(res *Result, text string, col, row int) {
	if periodLabelRe.MatchString(text) {
		for _, p := range periodLabels(text) {
			res.Periods[row] = append(res.Periods[row], p)
		}
		return
	}
	if ignorableLabels[text] {
		return
	}
	if day, ok := weekdayNames[text]; ok {
		res.Weekdays[col] = day
	}
}

// periodLabels extracts every period ordinal from a period header such as
// "第1节", "第十二节", "1,2节" or "3 (9:50-10:35)".
func periodLabels(text string) []timetable.Period {
	text = timeRangeRe.ReplaceAllString(text, "")
	var out []timetable.Period
	for _, part := range periodPartRe.FindAllString(text, -1) {
		switch {
		case numberRe.MatchString(part):
		case cnNumberRe.MatchString(part):
			part = cnDigits.Replace(part)
			if part == "十" {
				part = "10"
			} else {
				part = strings.ReplaceAll(part, "十", "1")
			}
		case !strings.Contains(part, ","):
			continue
		}
		p, err := timetable.ParsePeriod(part)
		if err != nil {
			log.Debug().Err(err).Str("label", text).Msg("period label ignored")
			continue
		}
		out = append(out, p)
	}
	return out
}
