package timetable

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxPeriod is the highest class-period ordinal a timetable may label.
const MaxPeriod = 14

// Period is a class-period label: the first period and how many further
// periods the label spans ("1,2" spans one more).
type Period struct {
	From     int
	Duration int
}

// ParsePeriod accepts "N" with N in 1..14 or the compact "N,M" form.
func ParsePeriod(src string) (Period, error) {
	src = strings.TrimSpace(src)
	if first, second, ok := strings.Cut(src, ","); ok {
		start, err := strconv.Atoi(first)
		if err != nil {
			return Period{}, fmt.Errorf("period %q: %w", src, err)
		}
		end, err := strconv.Atoi(second)
		if err != nil {
			return Period{}, fmt.Errorf("period %q: %w", src, err)
		}
		return Period{From: start, Duration: end - start}, nil
	}
	n, err := strconv.Atoi(src)
	if err != nil {
		return Period{}, fmt.Errorf("period %q: %w", src, err)
	}
	if n < 1 || n > MaxPeriod {
		return Period{}, fmt.Errorf("period %d out of range 1..%d", n, MaxPeriod)
	}
	return Period{From: n, Duration: 1}, nil
}

// Single reports whether the label covers one class.
func (p Period) Single() bool { return p.Duration == 1 }

func (p Period) String() string {
	return fmt.Sprintf("%d..%d", p.From, p.From+p.Duration)
}
