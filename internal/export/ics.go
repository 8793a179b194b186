package export

import (
	"fmt"
	"os"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gotimetable/internal/timetable"
)

const productID = "-//hyperifyio//gotimetable//EN"

// untilClock is the wall time the recurrence rule ends at on the last day.
const (
	untilHour   = 22
	untilMinute = 44
)

var weekNamespace = uuid.MustParse("a3d5c1f2-7b4e-4c8a-9e61-0f2d4b6a8c10")

// Calendar renders one weekly recurring event per course repetition.
// Repetitions that fall outside the grid are skipped.
func Calendar(tt *timetable.Timetable, timing Timing) (*ics.Calendar, error) {
	if err := timing.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", timetable.ErrExportFailure, err)
	}
	cal := newCalendar("Timetable")
	stamp := time.Now()
	skipped := 0
	for _, c := range tt.Courses {
		for _, r := range c.Repetitions {
			occ, ok := timing.Occurrence(c, r)
			if !ok {
				skipped++
				continue
			}
			ev := cal.AddEvent(c.OccurrenceUID(r))
			ev.SetDtStampTime(stamp)
			ev.SetStartAt(occ.Start)
			ev.SetEndAt(occ.End)
			ev.SetSummary(c.Name)
			if c.Location != "" {
				ev.SetLocation(c.Location)
			}
			if c.Educator != "" {
				ev.SetDescription(c.Educator)
			}
			ev.SetProperty(ics.ComponentPropertyRrule, recurrence(occ.Last, r))
		}
	}
	if skipped > 0 {
		log.Debug().Int("skipped", skipped).Msg("repetitions outside the calendar grid")
	}
	return cal, nil
}

// recurrence is the weekly rule ending on the last sitting's day.
func recurrence(last time.Time, r timetable.Repetition) string {
	until := time.Date(last.Year(), last.Month(), last.Day(), untilHour, untilMinute, 0, 0, last.Location())
	rule := "FREQ=WEEKLY;UNTIL=" + until.UTC().Format("20060102T150405Z")
	if r.Fortnightly() {
		rule += ";INTERVAL=2"
	}
	return rule
}

// WeekIndicator renders an all-day "Week N" event on the Monday of each of
// the first weeks of the term.
func WeekIndicator(timing Timing, weeks int) (*ics.Calendar, error) {
	if timing.TermStart.IsZero() {
		return nil, fmt.Errorf("%w: term start is required", timetable.ErrExportFailure)
	}
	cal := newCalendar("Weeks")
	stamp := time.Now()
	for n := 1; n <= weeks; n++ {
		day := timing.day(n, timetable.Monday)
		uid := uuid.NewSHA1(weekNamespace, []byte(day.Format("2006-01-02"))).String()
		ev := cal.AddEvent(uid)
		ev.SetDtStampTime(stamp)
		ev.SetAllDayStartAt(day)
		ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
		ev.SetSummary(fmt.Sprintf("Week %d", n))
	}
	return cal, nil
}

func newCalendar(name string) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(name)
	return cal
}

// WriteCalendar serializes cal to path.
func WriteCalendar(path string, cal *ics.Calendar) error {
	if err := os.WriteFile(path, []byte(cal.Serialize()), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", timetable.ErrExportFailure, path, err)
	}
	log.Info().Str("path", path).Int("events", len(cal.Events())).Msg("calendar written")
	return nil
}
