package tokenize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hyperifyio/gotimetable/internal/timetable"
)

// Rule is one literal rewrite. Rules run in table order and each sees the
// output of the previous ones.
type Rule struct {
	Old string
	New string
}

type rules []Rule

func (rs rules) apply(s string) string {
	for _, r := range rs {
		s = strings.ReplaceAll(s, r.Old, r.New)
	}
	return s
}

// markupRules mark cell, row and line-break boundaries in the raw table markup
// and tag the spanning cells of every known institutional layout.
var markupRules = rules{
	{"\u00a0</td>", Null + "</td>"},
	{"&nbsp;</td>", Null + "</td>"},

	{"</td>", breakMarker + Terminal + breakMarker + "</td>"},
	{"</th>", breakMarker + Terminal + breakMarker + "</th>"},

	{"</td></tr>", WrapTOE + breakMarker + WrapHead + breakMarker + "</td></tr>"},
	{"</th></tr>", WrapTOE + breakMarker + WrapHead + breakMarker + "</th></tr>"},

	{"</font><br", "</font>" + nothing + "<br"},
	{"><br", ">" + breakMarker + Empty + "<br"},
	{nothing, ""},

	{"<br", breakMarker + Filled + "<br"},

	{`</td><td align="Center" rowspan="2"`, Period2 + breakMarker + `</td><td align="Center" rowspan="2"`},
	{`</td><td align="Center" rowspan="3"`, Period3 + breakMarker + `</td><td align="Center" rowspan="3"`},
	{`</td><td align="Center" style="`, Period1 + breakMarker + `</td><td align="Center" style="`},

	{`</td><td align="Center" class="noprint" rowspan="2"`, Period2 + breakMarker + `</td><td align="Center" rowspan="2"`},
	{`</td><td align="Center" class="noprint" rowspan="3"`, Period3 + breakMarker + `</td><td align="Center" rowspan="3"`},
	{`</td><td align="Center" class="noprint" style="`, Period1 + breakMarker + `</td><td align="Center" style="`},
	{`</th><td align="Center" style="`, Period1 + breakMarker + `</td><td align="Center" style="`},

	{`</td><td align="center" class="noprint" rowspan="2"`, Period2 + breakMarker + `</td><td align="Center" rowspan="2"`},
	{`</td><td align="center" class="noprint" rowspan="3"`, Period3 + breakMarker + `</td><td align="Center" rowspan="3"`},
	{`</td><td align="center" class="noprint" style="`, Period1 + breakMarker + `</td><td align="Center" style="`},

	{`</td><td align="center" rowspan="2"`, Period2 + breakMarker + `</td><td align="Center" rowspan="2"`},
	{`</td><td align="center" rowspan="3"`, Period3 + breakMarker + `</td><td align="Center" rowspan="3"`},
	{`</td><td align="center" style="`, Period1 + breakMarker + `</td><td align="Center" style="`},
	{`</th><td align="center" style="`, Period1 + breakMarker + `</td><td align="Center" style="`},
}

// todoRe drops the display-only time range under a period number in
// period/time tables.
var todoRe = regexp.MustCompile(`\n\?#filled\n\d{1,2}:\d{2}-\d{1,2}:\d{2}`)

// periodRules turn period header cells into initiate markers. Longer labels
// come first so "11" is never read as "1".
var periodRules = func() rules {
	cn := []string{"", "一", "二", "三", "四", "五", "六", "七", "八", "九", "十",
		"十一", "十二", "十三", "十四"}
	var rs rules
	for n := timetable.MaxPeriod; n >= 1; n-- {
		rs = append(rs, Rule{"第" + strconv.Itoa(n) + "节\n" + Terminal, Initiate(n)})
	}
	for n := timetable.MaxPeriod; n >= 1; n-- {
		rs = append(rs, Rule{"第" + cn[n] + "节\n" + Terminal, Initiate(n)})
	}
	return append(rs,
		Rule{"1,2节\n" + Terminal, Morning + "\n" + Initiate(1)},
		Rule{"3,4节\n" + Terminal, Initiate(3)},
		Rule{"5,6节\n" + Terminal, Afternoon + "\n" + Initiate(5)},
		Rule{"7,8节\n" + Terminal, Initiate(7)},
		Rule{"备注\n" + Terminal, Description + "\n" + Filled},
		Rule{"晚 上\n" + Terminal, Evening},
	)
}()

// todoRules resolve the period numbers left in front of todo markers.
var todoRules = func() rules {
	var rs rules
	for n := timetable.MaxPeriod; n >= 1; n-- {
		rs = append(rs, Rule{strconv.Itoa(n) + Todo, Initiate(n)})
	}
	return rs
}()

var sessionRules = rules{
	{"上午\n" + Terminal, Morning},
	{"下午\n" + Terminal, Afternoon},
	{"晚上\n" + Terminal, Evening},
	{"<br/>", "\n"},
}
