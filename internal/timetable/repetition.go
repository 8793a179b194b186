package timetable

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Parity filters the weeks of a Repetition.
type Parity int

const (
	ParityAll Parity = iota
	ParityOdd
	ParityEven
)

const (
	cnOdd  = '单'
	cnEven = '双'
)

func (p Parity) String() string {
	switch p {
	case ParityOdd:
		return "odd"
	case ParityEven:
		return "even"
	default:
		return "all"
	}
}

// standardCode is the single-letter suffix used by the standard text form.
func (p Parity) standardCode() byte {
	switch p {
	case ParityOdd:
		return 'o'
	case ParityEven:
		return 'e'
	default:
		return 'a'
	}
}

// Repetition says a course occurs every week in [FromWeek, ToWeek] filtered
// by Parity. FromWeek and ToWeek are already aligned to the parity; the
// Display bounds keep what the timetable printed.
type Repetition struct {
	FromWeek    int
	ToWeek      int
	Parity      Parity
	DisplayFrom int
	DisplayTo   int
}

// NewRepetition builds a Repetition whose display bounds equal its week bounds.
func NewRepetition(from, to int, parity Parity) Repetition {
	return Repetition{FromWeek: from, ToWeek: to, Parity: parity, DisplayFrom: from, DisplayTo: to}
}

// Fortnightly reports whether the course skips every other week.
func (r Repetition) Fortnightly() bool { return r.Parity != ParityAll }

// Contains reports whether the course occurs in the given week.
func (r Repetition) Contains(week int) bool {
	if week < r.FromWeek || week > r.ToWeek {
		return false
	}
	if r.Fortnightly() {
		return (week-r.FromWeek)%2 == 0
	}
	return true
}

// SameWeeks compares the effective weeks, ignoring display bounds.
func (r Repetition) SameWeeks(o Repetition) bool {
	return r.FromWeek == o.FromWeek && r.ToWeek == o.ToWeek && r.Parity == o.Parity
}

// String renders the raw form, e.g. "2-18单" or "5".
func (r Repetition) String() string {
	if r.DisplayFrom == r.DisplayTo {
		return strconv.Itoa(r.DisplayFrom)
	}
	s := fmt.Sprintf("%d-%d", r.DisplayFrom, r.DisplayTo)
	switch r.Parity {
	case ParityOdd:
		s += string(cnOdd)
	case ParityEven:
		s += string(cnEven)
	}
	return s
}

// StandardString renders "from-to*displayFrom-displayTo" plus the parity code,
// e.g. "3-17*2-18o".
func (r Repetition) StandardString() string {
	return fmt.Sprintf("%d-%d*%d-%d%c", r.FromWeek, r.ToWeek, r.DisplayFrom, r.DisplayTo, r.Parity.standardCode())
}

// ParseRepetitions parses the raw form printed by timetables: comma separated
// week ranges, each optionally suffixed with 单 (odd) or 双 (even), e.g.
// "1-7单, 10-15". A range whose parity-aligned start passes its end collapses
// to 0-0.
func ParseRepetitions(text string) ([]Repetition, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	src := strings.ReplaceAll(text, " ", "")
	src = strings.ReplaceAll(src, "，", ",")
	var out []Repetition
	for _, part := range strings.Split(src, ",") {
		if part == "" {
			continue
		}
		r, err := parseRawRange(part)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func parseRawRange(part string) (Repetition, error) {
	if !strings.Contains(part, "-") {
		week, err := strconv.Atoi(part)
		if err != nil {
			return Repetition{}, fmt.Errorf("week %q: %w", part, err)
		}
		return NewRepetition(week, week, ParityAll), nil
	}
	bounds := strings.SplitN(part, "-", 2)
	from, err := strconv.Atoi(bounds[0])
	if err != nil {
		return Repetition{}, fmt.Errorf("week range %q: %w", part, err)
	}
	upper := bounds[1]
	parity := ParityAll
	switch {
	case strings.HasSuffix(upper, string(cnOdd)):
		parity = ParityOdd
		upper = strings.TrimSuffix(upper, string(cnOdd))
	case strings.HasSuffix(upper, string(cnEven)):
		parity = ParityEven
		upper = strings.TrimSuffix(upper, string(cnEven))
	}
	to, err := strconv.Atoi(upper)
	if err != nil {
		return Repetition{}, fmt.Errorf("week range %q: %w", part, err)
	}
	r := Repetition{FromWeek: from, ToWeek: to, Parity: parity, DisplayFrom: from, DisplayTo: to}
	switch parity {
	case ParityOdd:
		if r.FromWeek%2 == 0 {
			r.FromWeek++
		}
		if r.ToWeek%2 == 0 {
			r.ToWeek--
		}
	case ParityEven:
		if r.FromWeek%2 != 0 {
			r.FromWeek++
		}
		if r.ToWeek%2 != 0 {
			r.ToWeek--
		}
	}
	if r.FromWeek > r.ToWeek {
		return Repetition{}, nil
	}
	return r, nil
}

var standardRe = regexp.MustCompile(`(\d+)-(\d+)\*(\d+)-(\d+)([aeo])`)

// ParseStandardRepetitions parses the form produced by StandardString. Text
// that does not match yields no repetitions.
func ParseStandardRepetitions(text string) []Repetition {
	src := strings.ReplaceAll(text, " ", "")
	var out []Repetition
	for _, m := range standardRe.FindAllStringSubmatch(src, -1) {
		// the pattern guarantees digits
		from, _ := strconv.Atoi(m[1])
		to, _ := strconv.Atoi(m[2])
		displayFrom, _ := strconv.Atoi(m[3])
		displayTo, _ := strconv.Atoi(m[4])
		parity := ParityAll
		switch m[5] {
		case "o":
			parity = ParityOdd
		case "e":
			parity = ParityEven
		}
		out = append(out, Repetition{FromWeek: from, ToWeek: to, Parity: parity, DisplayFrom: displayFrom, DisplayTo: displayTo})
	}
	return out
}

// FormatRepetitions joins the raw forms with ", ".
func FormatRepetitions(reps []Repetition) string {
	parts := make([]string, len(reps))
	for i, r := range reps {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}

// FormatStandardRepetitions joins the standard forms with ", ".
func FormatStandardRepetitions(reps []Repetition) string {
	parts := make([]string, len(reps))
	for i, r := range reps {
		parts[i] = r.StandardString()
	}
	return strings.Join(parts, ", ")
}

// EqualRepetitions compares two repetition sets element by element.
func EqualRepetitions(a, b []Repetition) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].SameWeeks(b[i]) {
			return false
		}
	}
	return true
}

// WeekRange is the teaching term span supplied for courses that print only a
// weekly class count.
type WeekRange struct {
	Start int
	End   int
}

// Valid reports whether both weeks are positive.
func (w WeekRange) Valid() bool { return w.Start > 0 && w.End > 0 }

// Repetition returns the every-week repetition covering the range.
func (w WeekRange) Repetition() Repetition { return NewRepetition(w.Start, w.End, ParityAll) }
