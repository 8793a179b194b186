package timetable

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Template identifies one of the institutional layouts the tokenizer recognizes.
type Template byte

const (
	TemplateA Template = 'a'
	TemplateB Template = 'b'
	TemplateC Template = 'c'
	TemplateD Template = 'd'
)

func (t Template) String() string { return string(rune(t)) }

// ParseTemplate reads the first byte of s, defaulting to TemplateA.
func ParseTemplate(s string) Template {
	if s == "" {
		return TemplateA
	}
	switch t := Template(s[0]); t {
	case TemplateA, TemplateB, TemplateC, TemplateD:
		return t
	}
	return TemplateA
}

// Weekday numbering used by courses: 1 is Monday and 7 is the Sunday of the
// printed week.
const (
	Monday   = 1
	Saturday = 6
	Sunday   = 7
)

// Class periods: how many consecutive classes one cell covers.
const (
	PeriodSingle byte = 'a'
	PeriodDouble byte = 'b'
	PeriodTriple byte = 'c'
)

// DefaultPhase is the class phase of a course before any session is known.
const DefaultPhase = "11"

var uidNamespace = uuid.MustParse("6f0c3b8e-2d1a-4f5e-9c7b-1a2b3c4d5e6f")

// Course is one occurrence of a lesson in the weekly grid.
type Course struct {
	Name        string
	Educator    string
	Location    string
	DayOfWeek   int
	Repetitions []Repetition
	ClassPeriod byte
	ClassPhase  string
	Template    Template
	Duplicate   bool

	// LegacyUID identifies the same lesson across split periods.
	LegacyUID string
	// RenderUID is assigned per lesson after merging.
	RenderUID int
	// Schedule is the grid position computed by Timetable.Layout.
	Schedule int
}

// NewCourse returns an empty course with the default period and phase.
func NewCourse(template Template) *Course {
	return &Course{ClassPeriod: PeriodSingle, ClassPhase: DefaultPhase, Template: template}
}

// Successor starts the next course of the same cell, keeping only the class
// period and the weekday.
func (c *Course) Successor() *Course {
	n := NewCourse(c.Template)
	n.ClassPeriod = c.ClassPeriod
	n.DayOfWeek = c.DayOfWeek
	return n
}

// Blank reports whether the course has no usable name.
func (c *Course) Blank() bool { return strings.TrimSpace(c.Name) == "" }

// Session is the first digit of the class phase: 1 morning, 2 afternoon, 3 evening.
func (c *Course) Session() int { return phaseDigit(c.ClassPhase, 0) }

// SubSlot is the second digit of the class phase.
func (c *Course) SubSlot() int { return phaseDigit(c.ClassPhase, 1) }

func phaseDigit(phase string, i int) int {
	if len(phase) <= i || phase[i] < '1' || phase[i] > '9' {
		return 1
	}
	return int(phase[i] - '0')
}

// RenderLegacyUID derives LegacyUID from the name, repetitions, weekday and phase.
func (c *Course) RenderLegacyUID() {
	var b strings.Builder
	b.WriteString(c.Name)
	for _, r := range c.Repetitions {
		b.WriteString(strconv.Itoa(r.FromWeek))
		b.WriteString(strconv.Itoa(r.ToWeek))
		b.WriteString(strconv.FormatBool(r.Fortnightly()))
	}
	b.WriteString(strconv.Itoa(c.DayOfWeek))
	b.WriteString(c.ClassPhase)
	c.LegacyUID = uuid.NewSHA1(uidNamespace, []byte(b.String())).String()
}

// OccurrenceUID identifies one repetition of the course, for calendar events.
func (c *Course) OccurrenceUID(r Repetition) string {
	return uuid.NewSHA1(uidNamespace, []byte(c.LegacyUID+r.StandardString())).String()
}

// Clone returns a deep copy.
func (c *Course) Clone() *Course {
	n := *c
	n.Repetitions = append([]Repetition(nil), c.Repetitions...)
	return &n
}
