package tokenize

import (
	"errors"
	"strings"
	"testing"

	"github.com/hyperifyio/gotimetable/internal/timetable"
)

const algorithmsTable = `<table><tbody><tr><td colspan="2">时间</td><td>星期一</td><td>星期二</td><td>星期三</td><td>星期四</td><td>星期五</td></tr>` +
	`<tr><td>上午</td><td>第1节</td><td align="Center" rowspan="2">Algorithms<br/>周一第1,2节{第3-17周|单周}<br/>Prof. Li<br/>Room 101</td>` +
	`<td>&nbsp;</td><td>&nbsp;</td><td>&nbsp;</td><td>&nbsp;</td></tr></tbody></table>`

func TestTokenize_TemplateAStream(t *testing.T) {
	res, err := Tokenize(algorithmsTable)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if res.Template != timetable.TemplateA {
		t.Fatalf("expected template a, got %s", res.Template)
	}
	want := []string{
		WrapHead, Morning, Initiate(1), Period2,
		"Algorithms", Filled, "周一第1,2节{第3-17周|单周}", Filled, "Prof. Li", Filled, "Room 101", Terminal,
		Null, Terminal, Null, Terminal, Null, Terminal, Null, Terminal,
		WrapTOE,
	}
	if strings.Join(res.Lines, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected stream:\n%s", res.Text())
	}
}

func TestTokenize_StreamIsStableUnderRules(t *testing.T) {
	res, err := Tokenize(algorithmsTable)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	text := res.Text()
	for _, rs := range []rules{markupRules, periodRules, todoRules, sessionRules} {
		if got := rs.apply(text); got != text {
			t.Fatalf("rewrite changed tokenized stream:\n%s\n---\n%s", text, got)
		}
	}
}

func TestTokenize_EmptyInput(t *testing.T) {
	if _, err := Tokenize("  "); !errors.Is(err, timetable.ErrNoTableContent) {
		t.Fatalf("expected ErrNoTableContent, got %v", err)
	}
}

func TestTokenize_NoBannerAnchor(t *testing.T) {
	_, err := Tokenize(`<table><tr><td>Name<br/>x</td></tr></table>`)
	if !errors.Is(err, timetable.ErrUndefinedStructure) {
		t.Fatalf("expected ErrUndefinedStructure, got %v", err)
	}
}

func TestTokenize_TemplateDTodoCollapse(t *testing.T) {
	markup := `<table><tbody><tr><td>节次/时间</td><td>星期一</td></tr>` +
		`<tr><td>上午</td><td>11<br/>08:00-08:45</td><td>Math<br/>Room 1<br/>Zhang<br/>1-16</td></tr></tbody></table>`
	res, err := Tokenize(markup)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if res.Template != timetable.TemplateD {
		t.Fatalf("expected template d, got %s", res.Template)
	}
	want := []string{
		WrapHead, Morning, Initiate(11), Terminal, Terminal,
		"Math", Filled, "Room 1", Filled, "Zhang", Filled, "1-16", Terminal, WrapTOE,
	}
	if strings.Join(res.Lines, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected stream:\n%s", res.Text())
	}
}

func TestTokenize_TemplateCKeepsDescriptionRow(t *testing.T) {
	markup := `<table><tbody><tr><th>╲</th><th>星期一</th></tr>` +
		`<tr><td>上午</td><td>第1节</td><td>Physics<br/>(1-8)Lab 2*</td></tr>` +
		`<tr><td>备注</td><td>Physics:Dr. Wu；Chemistry:Dr. Ma</td></tr></tbody></table>`
	res, err := Tokenize(markup)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if res.Template != timetable.TemplateC {
		t.Fatalf("expected template c, got %s", res.Template)
	}
	want := []string{
		WrapHead, Morning, Initiate(1), "Physics", Filled, "(1-8)Lab 2*", Terminal, WrapTOE,
		WrapHead, Description, Filled, "Physics:Dr. Wu；Chemistry:Dr. Ma", Terminal, WrapTOE,
	}
	if strings.Join(res.Lines, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected stream:\n%s", res.Text())
	}
}

func TestTokenize_CompactPeriodGroups(t *testing.T) {
	text := periodRules.apply("1,2节\n" + Terminal + "\nX\n5,6节\n" + Terminal)
	want := Morning + "\n" + Initiate(1) + "\nX\n" + Afternoon + "\n" + Initiate(5)
	if text != want {
		t.Fatalf("expected %q, got %q", want, text)
	}
}

func TestTokenize_ChinesePeriodLabels(t *testing.T) {
	text := periodRules.apply("第十一节\n" + Terminal + "\n第一节\n" + Terminal)
	if text != Initiate(11)+"\n"+Initiate(1) {
		t.Fatalf("unexpected %q", text)
	}
}

func TestMarkupText_CollapsesAndDecodes(t *testing.T) {
	got, err := markupText("<td>  A&amp;B \n  C<br/>D</td><script>x</script>")
	if err != nil {
		t.Fatalf("markupText: %v", err)
	}
	if got != "A&B C\nD" {
		t.Fatalf("unexpected text %q", got)
	}
}
