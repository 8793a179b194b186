package export

import (
	"errors"
	"fmt"
	"time"

	"github.com/hyperifyio/gotimetable/internal/timetable"
)

// Bell is the schedule of one session: when its first class starts and the
// breaks between classes. SmallBreak separates the classes of one block,
// LargeBreak separates blocks.
type Bell struct {
	Start      string
	SmallBreak int
	LargeBreak int
}

// Timing places the weekly grid on the calendar. TermStart is the Monday of
// week 1; its location is the zone events are generated in.
type Timing struct {
	TermStart    time.Time
	ClassMinutes int
	Sessions     [3]Bell
}

// DefaultTiming returns the bell schedule most institutions print, anchored
// at termStart.
func DefaultTiming(termStart time.Time) Timing {
	return Timing{
		TermStart:    termStart,
		ClassMinutes: 45,
		Sessions: [3]Bell{
			{Start: "08:30", SmallBreak: 10, LargeBreak: 20},
			{Start: "14:20", SmallBreak: 10, LargeBreak: 20},
			{Start: "19:00", SmallBreak: 10, LargeBreak: 20},
		},
	}
}

// Validate checks the clock strings and durations.
func (t Timing) Validate() error {
	if t.TermStart.IsZero() {
		return errors.New("term start is required")
	}
	if t.ClassMinutes <= 0 {
		return fmt.Errorf("class minutes must be positive, got %d", t.ClassMinutes)
	}
	for i, b := range t.Sessions {
		if _, err := time.Parse("15:04", b.Start); err != nil {
			return fmt.Errorf("session %d start %q: %w", i+1, b.Start, err)
		}
		if b.SmallBreak < 0 || b.LargeBreak < 0 {
			return fmt.Errorf("session %d: negative break", i+1)
		}
	}
	return nil
}

// day returns midnight of the given day of the given week.
func (t Timing) day(week, weekday int) time.Time {
	y, m, d := t.TermStart.Date()
	return time.Date(y, m, d+(week-1)*7+(weekday-1), 0, 0, 0, 0, t.TermStart.Location())
}

// offset is the minutes from the session start to the first class of the
// course's sub-slot.
func (t Timing) offset(b Bell, subSlot int) int {
	block := 2*t.ClassMinutes + b.SmallBreak
	switch subSlot {
	case 2:
		return block + b.LargeBreak
	case 3:
		return 2*block + b.LargeBreak + b.SmallBreak
	}
	return 0
}

// duration is the length of one sitting in minutes.
func (t Timing) duration(b Bell, c *timetable.Course) int {
	switch c.ClassPeriod {
	case timetable.PeriodDouble:
		return 2*t.ClassMinutes + b.SmallBreak
	case timetable.PeriodTriple:
		return 3*t.ClassMinutes + 2*b.SmallBreak
	}
	if c.Template == timetable.TemplateC {
		return 2*t.ClassMinutes + b.SmallBreak
	}
	return t.ClassMinutes
}

// Occurrence is the first sitting of a repetition and the day of its last one.
type Occurrence struct {
	Start time.Time
	End   time.Time
	Last  time.Time
}

// Occurrence places a repetition of a course on the calendar. Courses outside
// the grid and collapsed repetitions report ok=false.
func (t Timing) Occurrence(c *timetable.Course, r timetable.Repetition) (Occurrence, bool) {
	session := c.Session()
	if session < 1 || session > 3 || c.DayOfWeek < timetable.Monday || c.DayOfWeek > timetable.Sunday {
		return Occurrence{}, false
	}
	if r.FromWeek <= 0 || r.ToWeek < r.FromWeek {
		return Occurrence{}, false
	}
	b := t.Sessions[session-1]
	clock, err := time.Parse("15:04", b.Start)
	if err != nil {
		return Occurrence{}, false
	}
	first := t.day(r.FromWeek, c.DayOfWeek)
	minutes := clock.Hour()*60 + clock.Minute() + t.offset(b, c.SubSlot())
	start := first.Add(time.Duration(minutes) * time.Minute)
	return Occurrence{
		Start: start,
		End:   start.Add(time.Duration(t.duration(b, c)) * time.Minute),
		Last:  t.day(r.ToWeek, c.DayOfWeek),
	}, true
}
