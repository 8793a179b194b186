// Package parse turns a token stream into course records.
package parse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gotimetable/internal/detect"
	"github.com/hyperifyio/gotimetable/internal/merge"
	"github.com/hyperifyio/gotimetable/internal/timetable"
	"github.com/hyperifyio/gotimetable/internal/tokenize"
)

// Parser holds one token stream ready for parsing. A Parser is not safe for
// concurrent use; independent streams need independent parsers.
type Parser struct {
	template     timetable.Template
	lines        []string
	descriptions map[string]string
}

// New prepares a stream. Template c streams lose their footnote row, which
// becomes the name to educator lookup.
func New(res tokenize.Result) *Parser {
	p := &Parser{template: res.Template, lines: res.Lines}
	if res.Template == timetable.TemplateC {
		p.lines, p.descriptions = splitDescriptions(res.Lines)
	}
	return p
}

// Lines returns the stream the state machine will consume.
func (p *Parser) Lines() []string { return p.lines }

// Descriptions returns the template c footnote lookup, nil for other templates.
func (p *Parser) Descriptions() map[string]string { return p.descriptions }

// Parse runs the state machine. Courses printing only a weekly count get
// weeks as their repetition. Any failure discards the partial timetable
// and is reported as ErrUnexpectedParse.
func (p *Parser) Parse(weeks timetable.WeekRange) (tt *timetable.Timetable, err error) {
	defer func() {
		if r := recover(); r != nil {
			tt = nil
			err = fmt.Errorf("%w: %v", timetable.ErrUnexpectedParse, r)
		}
		if err != nil {
			log.Error().Err(err).Str("template", p.template.String()).Msg("timetable parse failed")
		}
	}()

	s := newState(p.template, weeks, p.descriptions)
	for i, line := range p.lines {
		if err := s.step(line); err != nil {
			return nil, fmt.Errorf("%w: line %d %q: %w", timetable.ErrUnexpectedParse, i+1, line, err)
		}
		if s.endReached {
			s.endReached = false
			s.step(tokenize.Empty)
		}
	}

	courses := make([]*timetable.Course, 0, len(s.courses))
	for _, c := range s.courses {
		if !c.Blank() {
			courses = append(courses, c)
		}
	}
	tt = timetable.New(courses)
	if s.template == timetable.TemplateD {
		tt.RenderUIDs()
	}
	tt.Courses = merge.Merge(tt.Courses, s.template)
	tt.RenderUIDs()
	log.Debug().Int("courses", tt.Len()).Str("template", s.template.String()).Msg("timetable parsed")
	return tt, nil
}

// state is everything the machine tracks while reading one stream.
type state struct {
	template     timetable.Template
	weeks        timetable.WeekRange
	descriptions map[string]string

	// phrase is the field position inside the current cell, 0 between cells.
	phrase        int
	weekday       int
	terminalClass int

	afternoonPending bool
	eveningPending   bool
	morningCount     int
	afternoonCount   int

	endReached bool
	course     *timetable.Course
	courses    []*timetable.Course
}

func newState(template timetable.Template, weeks timetable.WeekRange, descriptions map[string]string) *state {
	return &state{
		template:     template,
		weeks:        weeks,
		descriptions: descriptions,
		course:       timetable.NewCourse(template),
	}
}

var errNoWeekBraces = errors.New("no braced week range")

func (s *state) step(line string) error {
	if detect.MissingWeeks(line) {
		s.course.Repetitions = []timetable.Repetition{s.weeks.Repetition()}
		return nil
	}
	if strings.Contains(line, tokenize.InitiatePrefix) {
		n, err := strconv.Atoi(digits(line))
		if err != nil {
			return fmt.Errorf("period marker: %w", err)
		}
		s.terminalClass = n
		return nil
	}
	if isNoise(line) {
		s.phrase = 0
		return nil
	}
	if strings.HasPrefix(line, "课号：") {
		s.flush()
		s.phrase = 0
		return nil
	}
	if t, ok := transitions[line]; ok {
		t(s)
		return nil
	}
	s.latchSessions()
	if categoryLabels[line] {
		s.phrase--
		return nil
	}
	return s.field(line)
}

// isNoise matches schedule change and exam annotations.
func isNoise(line string) bool {
	for _, mark := range []string{"(换", "(调", "(停", "考试时间", "考试地点"} {
		if strings.Contains(line, mark) {
			return true
		}
	}
	return strings.Contains(line, ":") && strings.Contains(line, "-") &&
		strings.HasPrefix(line, "(") && strings.HasSuffix(line, ")】")
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// flush closes the current course; the next one keeps its weekday and
// class period.
func (s *state) flush() {
	s.courses = append(s.courses, s.course)
	s.course = s.course.Successor()
}

// latchSessions fixes the session boundaries once the first afternoon or
// evening row has its period index.
func (s *state) latchSessions() {
	if s.afternoonPending {
		s.morningCount = s.terminalClass - 1
		s.afternoonPending = false
	}
	if s.eveningPending {
		s.afternoonCount = s.terminalClass - s.morningCount - 1
		s.eveningPending = false
	}
}

func (s *state) field(line string) error {
	switch s.phrase {
	case 1:
		s.nameField(line)
	case 2:
		return s.weeksField(line)
	case 3:
		if s.template != timetable.TemplateC {
			s.course.Educator = line
		}
	case 4:
		if s.template == timetable.TemplateD {
			reps, err := timetable.ParseRepetitions(line)
			if err != nil {
				return err
			}
			s.course.Repetitions = reps
		} else {
			s.course.Location = line
		}
		s.endReached = true
	}
	return nil
}

func (s *state) nameField(line string) {
	s.course.Name = line
	s.course.DayOfWeek = s.weekday
	if s.template == timetable.TemplateD {
		if phase, ok := s.periodTablePhase(); ok {
			s.course.ClassPhase = phase
			s.course.ClassPeriod = timetable.PeriodSingle
		}
	} else if phase, ok := s.phase(); ok {
		s.course.ClassPhase = phase
	}
	if s.template == timetable.TemplateC {
		if educator, ok := s.descriptions[line]; ok {
			s.course.Educator = educator
		}
	}
}

// session returns the session digit and the period index relative to the
// session start.
func (s *state) session() (byte, int) {
	tc := s.terminalClass
	switch {
	case s.morningCount == 0 && s.afternoonCount == 0:
		return '1', tc
	case tc > s.morningCount && s.afternoonCount == 0:
		return '2', tc - s.morningCount
	default:
		return '3', tc - s.morningCount - s.afternoonCount
	}
}

// phase maps the relative periods 1, 3 and 5 to the session's sub-slots.
func (s *state) phase() (string, bool) {
	session, rel := s.session()
	switch rel {
	case 1:
		return string(session) + "1", true
	case 3:
		return string(session) + "2", true
	case 5:
		return string(session) + "3", true
	}
	return "", false
}

// periodTablePhase is the coarser mapping used by period tables, where every
// period is a row of its own.
func (s *state) periodTablePhase() (string, bool) {
	session, rel := s.session()
	switch session {
	case '1', '2':
		switch rel {
		case 1, 2:
			return string(session) + "1", true
		case 3, 4, 5:
			return string(session) + "2", true
		}
	case '3':
		switch rel {
		case 1, 2, 3:
			return "31", true
		}
	}
	return "", false
}

func (s *state) weeksField(line string) error {
	if s.template == timetable.TemplateA && strings.HasSuffix(line, ")") &&
		strings.Index(line, "(") > strings.Index(line, "-") {
		s.template = timetable.TemplateB
	}
	s.course.Template = s.template

	var weekText string
	switch s.template {
	case timetable.TemplateA:
		var err error
		if weekText, err = bracedWeeks(line); err != nil {
			return err
		}
	case timetable.TemplateB:
		open := strings.Index(line, "(")
		if open < 0 {
			return fmt.Errorf("no parenthesis in %q", line)
		}
		weekText = line[:open]
	case timetable.TemplateC:
		open, closing := strings.Index(line, "("), strings.Index(line, ")")
		if open < 0 || closing < open {
			return fmt.Errorf("no parenthesized weeks in %q", line)
		}
		weekText = line[open+1 : closing]
		if strings.HasSuffix(line, "*") {
			rest := line[closing+1:]
			s.course.Location = rest[:strings.Index(rest, "*")]
		}
	case timetable.TemplateD:
		s.course.Location = line
	}
	reps, err := timetable.ParseRepetitions(weekText)
	if err != nil {
		return err
	}
	s.course.Repetitions = reps
	return nil
}

// bracedWeeks extracts the week range from "{第3-17周|单周}" or
// "{第1-16周|3节/周}" forms.
func bracedWeeks(line string) (string, error) {
	open, closing := strings.Index(line, "{"), strings.Index(line, "}")
	if open < 0 || closing < open {
		return "", errNoWeekBraces
	}
	inner := []rune(line[open+1 : closing])
	if len(inner) < 2 {
		return "", fmt.Errorf("week range %q too short", string(inner))
	}
	weekText := string(inner[1 : len(inner)-1])
	if strings.Contains(weekText, "周|单") || strings.Contains(weekText, "周|双") {
		weekText = strings.ReplaceAll(weekText, "周|", "")
	}
	if strings.Contains(weekText, "节/") {
		if i := strings.Index(weekText, "周"); i >= 0 {
			weekText = weekText[:i]
		}
	}
	return weekText, nil
}
