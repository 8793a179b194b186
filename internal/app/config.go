package app

import (
	"fmt"
	"time"

	"github.com/hyperifyio/gotimetable/internal/export"
	"github.com/hyperifyio/gotimetable/internal/timetable"
)

// Config holds runtime configuration for the application.
type Config struct {
	InputPath string
	Encoding  string

	// Outputs; empty disables the renderer
	OutputICS   string
	OutputWeeks string
	OutputXLSX  string
	OutputPDF   string
	PDFFont     string

	// Intermediate files
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool

	// Parsed timetables
	StoreDir     string
	StoreReplace bool

	// Week range for courses printing only a weekly class count
	StartWeek int
	EndWeek   int

	// Calendar placement
	TermStart      string
	TimeZone       string
	MorningStart   string
	AfternoonStart string
	EveningStart   string
	ClassMinutes   int
	SmallBreak     int
	LargeBreak     int
	IndicatorWeeks int

	WatchDir string
	Verbose  bool
}

// Weeks returns the preconfigured week range; zero when unset.
func (c Config) Weeks() timetable.WeekRange {
	return timetable.WeekRange{Start: c.StartWeek, End: c.EndWeek}
}

// NeedsTiming reports whether any calendar output is requested.
func (c Config) NeedsTiming() bool {
	return c.OutputICS != "" || c.OutputWeeks != ""
}

// Timing builds the calendar placement from the configured term and bells.
// Unset bell fields keep their defaults.
func (c Config) Timing() (export.Timing, error) {
	loc := time.Local
	if c.TimeZone != "" {
		l, err := time.LoadLocation(c.TimeZone)
		if err != nil {
			return export.Timing{}, fmt.Errorf("time zone %q: %w", c.TimeZone, err)
		}
		loc = l
	}
	start, err := time.ParseInLocation("2006-01-02", c.TermStart, loc)
	if err != nil {
		return export.Timing{}, fmt.Errorf("term start %q: %w", c.TermStart, err)
	}
	t := export.DefaultTiming(start)
	if c.ClassMinutes > 0 {
		t.ClassMinutes = c.ClassMinutes
	}
	for i, s := range []string{c.MorningStart, c.AfternoonStart, c.EveningStart} {
		if s != "" {
			t.Sessions[i].Start = s
		}
		if c.SmallBreak > 0 {
			t.Sessions[i].SmallBreak = c.SmallBreak
		}
		if c.LargeBreak > 0 {
			t.Sessions[i].LargeBreak = c.LargeBreak
		}
	}
	return t, t.Validate()
}
