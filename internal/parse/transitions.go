package parse

import (
	"github.com/hyperifyio/gotimetable/internal/timetable"
	"github.com/hyperifyio/gotimetable/internal/tokenize"
)

// transition handles one marker line.
type transition func(s *state)

var transitions = map[string]transition{
	tokenize.WrapHead: func(s *state) {
		s.phrase = 1
		s.weekday = 1
	},
	tokenize.Period1: setClassPeriod(timetable.PeriodSingle),
	tokenize.Period2: setClassPeriod(timetable.PeriodDouble),
	tokenize.Period3: setClassPeriod(timetable.PeriodTriple),
	tokenize.Filled: func(s *state) {
		s.phrase++
	},
	// an empty sub-line closes the course; the slot holds nothing more
	tokenize.Empty: func(s *state) {
		s.flush()
		s.phrase = 0
	},
	tokenize.WrapTOE:     nop,
	tokenize.Null:        nop,
	tokenize.Morning:     nop,
	tokenize.Description: nop,
	tokenize.Todo:        nop,
	tokenize.Afternoon: func(s *state) {
		s.afternoonPending = true
	},
	tokenize.Evening: func(s *state) {
		s.eveningPending = true
	},
	tokenize.Terminal: terminal,
}

func nop(*state) {}

func setClassPeriod(p byte) transition {
	return func(s *state) { s.course.ClassPeriod = p }
}

// terminal closes a cell. Period tables close the period column with a
// terminal of their own; that one discards the in-progress course.
func terminal(s *state) {
	if s.template == timetable.TemplateD && s.phrase == 1 {
		s.course = timetable.NewCourse(s.template)
		return
	}
	s.courses = append(s.courses, s.course)
	s.phrase = 1
	s.weekday++
	s.course = timetable.NewCourse(s.template)
}

// categoryLabels are secondary lines inside a name cell. They do not count
// as a field.
var categoryLabels = setOf(
	"必修", "选修", "学类", "通识", "基础", "学门",
	"人文", "[教学大纲|授课计划]", "任选", "学选", "专选",
	"",
)

func setOf(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}
