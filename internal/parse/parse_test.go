package parse

import (
	"errors"
	"testing"

	"github.com/hyperifyio/gotimetable/internal/timetable"
	"github.com/hyperifyio/gotimetable/internal/tokenize"
)

const algorithmsTable = `<table><tbody><tr><td colspan="2">时间</td><td>星期一</td><td>星期二</td><td>星期三</td><td>星期四</td><td>星期五</td></tr>` +
	`<tr><td>上午</td><td>第1节</td><td align="Center" rowspan="2">Algorithms<br/>周一第1,2节{第3-17周|单周}<br/>Prof. Li<br/>Room 101</td>` +
	`<td>&nbsp;</td><td>&nbsp;</td><td>&nbsp;</td><td>&nbsp;</td></tr></tbody></table>`

func mustTokenize(t *testing.T, markup string) tokenize.Result {
	t.Helper()
	res, err := tokenize.Tokenize(markup)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	return res
}

func TestParse_SingleOddWeekCourse(t *testing.T) {
	tt, err := New(mustTokenize(t, algorithmsTable)).Parse(timetable.WeekRange{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tt.Len() != 1 {
		t.Fatalf("expected 1 course, got %d", tt.Len())
	}
	c := tt.Courses[0]
	if c.Name != "Algorithms" || c.DayOfWeek != 1 || c.ClassPhase != "11" {
		t.Fatalf("unexpected course %+v", c)
	}
	if c.Educator != "Prof. Li" || c.Location != "Room 101" || c.ClassPeriod != timetable.PeriodDouble {
		t.Fatalf("unexpected course details %+v", c)
	}
	if len(c.Repetitions) != 1 {
		t.Fatalf("expected 1 repetition, got %+v", c.Repetitions)
	}
	r := c.Repetitions[0]
	if r.FromWeek != 3 || r.ToWeek != 17 || r.Parity != timetable.ParityOdd {
		t.Fatalf("expected 3-17 odd, got %+v", r)
	}
	if c.RenderUID != 1 || c.LegacyUID == "" {
		t.Fatalf("expected rendered uids, got %d %q", c.RenderUID, c.LegacyUID)
	}
}

func TestParse_WeeklyCountUsesSuppliedRange(t *testing.T) {
	res := tokenize.Result{Template: timetable.TemplateA, Lines: []string{
		tokenize.WrapHead, tokenize.Initiate(3),
		"Databases", tokenize.Filled, "周二第3,4节 3节/周", tokenize.Filled, "Prof. Wang", tokenize.Filled, "Room 7",
		tokenize.Terminal,
		"Databases", tokenize.Filled, "周三第3,4节 3节/周", tokenize.Filled, "Prof. Wang", tokenize.Filled, "Room 7",
		tokenize.Terminal, tokenize.WrapTOE,
	}}
	tt, err := New(res).Parse(timetable.WeekRange{Start: 5, End: 16})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tt.Len() != 2 {
		t.Fatalf("expected 2 courses, got %d", tt.Len())
	}
	for _, c := range tt.Courses {
		if len(c.Repetitions) != 1 || c.Repetitions[0] != timetable.NewRepetition(5, 16, timetable.ParityAll) {
			t.Fatalf("expected 5-16 every week, got %+v", c.Repetitions)
		}
		if c.ClassPhase != "12" {
			t.Fatalf("expected phase 12, got %s", c.ClassPhase)
		}
	}
	if tt.Courses[0].DayOfWeek != 1 || tt.Courses[1].DayOfWeek != 2 {
		t.Fatalf("unexpected weekdays %d %d", tt.Courses[0].DayOfWeek, tt.Courses[1].DayOfWeek)
	}
}

func TestParse_PeriodTable(t *testing.T) {
	markup := `<table><tbody><tr><td>节次/时间</td><td>星期一</td></tr>` +
		`<tr><td>上午</td><td>1<br/>08:00-08:45</td><td>Math<br/>Room 1<br/>Zhang<br/>1-16</td></tr></tbody></table>`
	tt, err := New(mustTokenize(t, markup)).Parse(timetable.WeekRange{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tt.Len() != 1 {
		t.Fatalf("expected 1 course, got %d", tt.Len())
	}
	c := tt.Courses[0]
	if c.Name != "Math" || c.Location != "Room 1" || c.Educator != "Zhang" || c.DayOfWeek != 1 || c.ClassPhase != "11" {
		t.Fatalf("unexpected course %+v", c)
	}
	if len(c.Repetitions) != 1 || c.Repetitions[0].ToWeek != 16 {
		t.Fatalf("unexpected weeks %+v", c.Repetitions)
	}
}

func TestParse_DescriptionFootnote(t *testing.T) {
	markup := `<table><tbody><tr><th>╲</th><th>星期一</th></tr>` +
		`<tr><td>上午</td><td>第1节</td><td>Physics<br/>(1-8)Lab 2*</td></tr>` +
		`<tr><td>备注</td><td>Physics:Dr. Wu；Chemistry:Dr. Ma；no pair here</td></tr></tbody></table>`
	p := New(mustTokenize(t, markup))
	if got := p.Descriptions(); len(got) != 2 || got["Chemistry"] != "Dr. Ma" {
		t.Fatalf("unexpected descriptions %v", got)
	}
	tt, err := p.Parse(timetable.WeekRange{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tt.Len() != 1 {
		t.Fatalf("expected 1 course, got %d", tt.Len())
	}
	c := tt.Courses[0]
	if c.Educator != "Dr. Wu" || c.Location != "Lab 2" || c.Template != timetable.TemplateC {
		t.Fatalf("unexpected course %+v", c)
	}
	if c.Repetitions[0].FromWeek != 1 || c.Repetitions[0].ToWeek != 8 {
		t.Fatalf("unexpected weeks %+v", c.Repetitions)
	}
}

func TestParse_ReclassifiesParenthesizedLayout(t *testing.T) {
	res := tokenize.Result{Template: timetable.TemplateA, Lines: []string{
		tokenize.WrapHead, tokenize.Initiate(1),
		"Optics", tokenize.Filled, "2-9双(1-2)", tokenize.Filled, "Dr. Chen", tokenize.Filled, "Hall B",
		tokenize.Terminal,
	}}
	tt, err := New(res).Parse(timetable.WeekRange{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	c := tt.Courses[0]
	if c.Template != timetable.TemplateB {
		t.Fatalf("expected template b, got %s", c.Template)
	}
	if r := c.Repetitions[0]; r.FromWeek != 2 || r.ToWeek != 8 || r.Parity != timetable.ParityEven {
		t.Fatalf("unexpected weeks %+v", r)
	}
}

func TestParse_MalformedWeeksDiscardsResult(t *testing.T) {
	res := tokenize.Result{Template: timetable.TemplateA, Lines: []string{
		tokenize.WrapHead, "Broken", tokenize.Filled, "no braces at all", tokenize.Terminal,
	}}
	tt, err := New(res).Parse(timetable.WeekRange{})
	if !errors.Is(err, timetable.ErrUnexpectedParse) {
		t.Fatalf("expected ErrUnexpectedParse, got %v", err)
	}
	if tt != nil {
		t.Fatal("expected no partial timetable")
	}
}

func TestParse_BlankNamesDropped(t *testing.T) {
	res := tokenize.Result{Template: timetable.TemplateA, Lines: []string{
		tokenize.WrapHead, "   ", tokenize.Terminal, tokenize.Null, tokenize.Terminal,
	}}
	tt, err := New(res).Parse(timetable.WeekRange{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tt.Len() != 0 {
		t.Fatalf("expected no courses, got %+v", tt.Courses)
	}
}

func TestTransition_TerminalInPeriodTableDiscards(t *testing.T) {
	s := newState(timetable.TemplateD, timetable.WeekRange{}, nil)
	s.phrase = 1
	s.weekday = 1
	s.course.Name = "spurious"
	if err := s.step(tokenize.Terminal); err != nil {
		t.Fatalf("step: %v", err)
	}
	if len(s.courses) != 0 || s.course.Name != "" || s.weekday != 1 {
		t.Fatalf("expected discarded course, got %d courses weekday %d", len(s.courses), s.weekday)
	}
}

func TestTransition_TerminalClosesCell(t *testing.T) {
	s := newState(timetable.TemplateA, timetable.WeekRange{}, nil)
	s.phrase = 3
	s.weekday = 2
	s.course.Name = "X"
	if err := s.step(tokenize.Terminal); err != nil {
		t.Fatalf("step: %v", err)
	}
	if len(s.courses) != 1 || s.phrase != 1 || s.weekday != 3 {
		t.Fatalf("unexpected state phrase=%d weekday=%d courses=%d", s.phrase, s.weekday, len(s.courses))
	}
}

func TestTransition_CategoryLabelDoesNotCount(t *testing.T) {
	s := newState(timetable.TemplateA, timetable.WeekRange{}, nil)
	s.phrase = 2
	if err := s.step("必修"); err != nil {
		t.Fatalf("step: %v", err)
	}
	if s.phrase != 1 {
		t.Fatalf("expected phrase 1, got %d", s.phrase)
	}
}

func TestTransition_CourseNumberFlushes(t *testing.T) {
	s := newState(timetable.TemplateA, timetable.WeekRange{}, nil)
	s.phrase = 3
	s.course.Name = "X"
	s.course.DayOfWeek = 4
	s.course.ClassPeriod = timetable.PeriodTriple
	if err := s.step("课号：12345"); err != nil {
		t.Fatalf("step: %v", err)
	}
	if len(s.courses) != 1 || s.phrase != 0 {
		t.Fatalf("expected flush, got phrase=%d courses=%d", s.phrase, len(s.courses))
	}
	if s.course.DayOfWeek != 4 || s.course.ClassPeriod != timetable.PeriodTriple || s.course.Name != "" {
		t.Fatalf("unexpected successor %+v", s.course)
	}
}

func TestTransition_NoiseResetsPhrase(t *testing.T) {
	s := newState(timetable.TemplateA, timetable.WeekRange{}, nil)
	s.phrase = 2
	if err := s.step("(调课)"); err != nil {
		t.Fatalf("step: %v", err)
	}
	if s.phrase != 0 {
		t.Fatalf("expected phrase 0, got %d", s.phrase)
	}
}

func TestTransition_AfternoonLatchesOnContent(t *testing.T) {
	s := newState(timetable.TemplateA, timetable.WeekRange{}, nil)
	for _, line := range []string{tokenize.Afternoon, tokenize.Initiate(5), tokenize.Period2} {
		if err := s.step(line); err != nil {
			t.Fatalf("step %q: %v", line, err)
		}
	}
	if s.morningCount != 0 {
		t.Fatalf("expected no latch before content, got %d", s.morningCount)
	}
	s.phrase = 1
	s.weekday = 1
	if err := s.step("Chemistry"); err != nil {
		t.Fatalf("step: %v", err)
	}
	if s.morningCount != 4 || s.course.ClassPhase != "21" {
		t.Fatalf("expected morning count 4 and phase 21, got %d %s", s.morningCount, s.course.ClassPhase)
	}
}
