// Package detect finds courses whose weeks the timetable does not print.
package detect

import (
	"strings"

	"github.com/hyperifyio/gotimetable/internal/tokenize"
)

// WeeklyCountMark is the "N classes per week" qualifier printed instead of a
// week range.
const WeeklyCountMark = "节/周"

// Instruction closes every prompt summary.
const Instruction = "These courses do not list their teaching weeks. Enter the first and last week they are taught."

// MissingWeeks reports whether a token line carries a weekly count but no
// braced week range.
func MissingWeeks(line string) bool {
	return strings.Contains(line, WeeklyCountMark) && !strings.Contains(line, "{")
}

// Entry is one course lacking a week range.
type Entry struct {
	// Context is the nearest cell text before Line, usually the course name.
	Context string
	Line    string
}

func (e Entry) String() string {
	if e.Context == "" {
		return e.Line
	}
	return e.Context + "\n" + e.Line
}

// Report collects the courses that need a week range from the user.
type Report struct {
	Entries []Entry
}

// Scan walks the token stream. An entry equal to the one recorded just
// before it is skipped; repeats further apart are kept.
func Scan(lines []string) Report {
	var r Report
	context := ""
	for _, line := range lines {
		if MissingWeeks(line) {
			e := Entry{Context: context, Line: line}
			if n := len(r.Entries); n == 0 || r.Entries[n-1] != e {
				r.Entries = append(r.Entries, e)
			}
		}
		if line != "" && !tokenize.IsMarker(line) {
			context = line
		}
	}
	return r
}

// Required reports whether the parse must wait for a week range.
func (r Report) Required() bool { return len(r.Entries) > 0 }

// Summary is the human readable prompt text.
func (r Report) Summary() string {
	if !r.Required() {
		return ""
	}
	var b strings.Builder
	for _, e := range r.Entries {
		b.WriteString(e.String())
		b.WriteString("\n\n")
	}
	b.WriteString(Instruction)
	return b.String()
}
