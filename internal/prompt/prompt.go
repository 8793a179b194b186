// Package prompt asks the user for the week range of courses that print only
// a weekly class count.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/hyperifyio/gotimetable/internal/timetable"
)

// Prompter blocks until the user answers or dismisses the request.
// Implementations return ErrPromptDismissed when no answer will come and
// ErrMalformedWeekRange when the answer is unusable.
type Prompter interface {
	AskWeeks(ctx context.Context, summary string) (timetable.WeekRange, error)
}

// ParseWeekRange converts user input into a WeekRange. Both weeks must be
// positive integers.
func ParseWeekRange(start, end string) (timetable.WeekRange, error) {
	s, err := parseWeek(start)
	if err != nil {
		return timetable.WeekRange{}, err
	}
	e, err := parseWeek(end)
	if err != nil {
		return timetable.WeekRange{}, err
	}
	return timetable.WeekRange{Start: s, End: e}, nil
}

func parseWeek(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", timetable.ErrMalformedWeekRange, text)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: week %d is not positive", timetable.ErrMalformedWeekRange, n)
	}
	return n, nil
}

// Static answers every request with a preconfigured range.
type Static struct {
	Weeks timetable.WeekRange
}

func (p Static) AskWeeks(_ context.Context, _ string) (timetable.WeekRange, error) {
	if !p.Weeks.Valid() {
		return timetable.WeekRange{}, fmt.Errorf("%w: %d-%d", timetable.ErrMalformedWeekRange, p.Weeks.Start, p.Weeks.End)
	}
	return p.Weeks, nil
}

// Terminal prints the summary to Out and reads two lines from In.
type Terminal struct {
	In  io.Reader
	Out io.Writer
}

func (p Terminal) AskWeeks(ctx context.Context, summary string) (timetable.WeekRange, error) {
	type answer struct {
		weeks timetable.WeekRange
		err   error
	}
	done := make(chan answer, 1)
	go func() {
		sc := bufio.NewScanner(p.In)
		fmt.Fprintf(p.Out, "%s\n\nFirst week: ", summary)
		start, ok := scanLine(sc)
		if !ok {
			done <- answer{err: timetable.ErrPromptDismissed}
			return
		}
		fmt.Fprint(p.Out, "Last week: ")
		end, ok := scanLine(sc)
		if !ok {
			done <- answer{err: timetable.ErrPromptDismissed}
			return
		}
		w, err := ParseWeekRange(start, end)
		done <- answer{weeks: w, err: err}
	}()
	select {
	case <-ctx.Done():
		return timetable.WeekRange{}, fmt.Errorf("%w: %w", timetable.ErrPromptDismissed, ctx.Err())
	case a := <-done:
		return a.weeks, a.err
	}
}

func scanLine(sc *bufio.Scanner) (string, bool) {
	if !sc.Scan() {
		return "", false
	}
	return sc.Text(), true
}

// AskFunc shows summary to the user and later calls submit or dismiss, at
// most once and from any goroutine.
type AskFunc func(summary string, submit func(start, end string), dismiss func())

// Callback adapts an asynchronous dialog to the blocking Prompter contract.
type Callback struct {
	Ask AskFunc
}

func (p Callback) AskWeeks(ctx context.Context, summary string) (timetable.WeekRange, error) {
	type answer struct {
		start, end string
		dismissed  bool
	}
	done := make(chan answer, 1)
	var once sync.Once
	p.Ask(summary,
		func(start, end string) {
			once.Do(func() { done <- answer{start: start, end: end} })
		},
		func() {
			once.Do(func() { done <- answer{dismissed: true} })
		},
	)
	select {
	case <-ctx.Done():
		return timetable.WeekRange{}, fmt.Errorf("%w: %w", timetable.ErrPromptDismissed, ctx.Err())
	case a := <-done:
		if a.dismissed {
			return timetable.WeekRange{}, timetable.ErrPromptDismissed
		}
		return ParseWeekRange(a.start, a.end)
	}
}
