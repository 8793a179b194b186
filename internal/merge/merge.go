// Package merge collapses course occurrences that describe the same lesson.
package merge

import (
	"sort"

	"github.com/hyperifyio/gotimetable/internal/timetable"
)

// Merge makes one left-to-right pass over courses. Each course is compared
// with every course on the same weekday and phase and merged into the first
// partner found, after which it is removed:
//
//   - period tables (template d): a split lesson with the same identity folds
//     into its partner, whose class period grows by one slot;
//   - otherwise equal name, educator and location with different weeks fold
//     their repetitions into the partner, sorted by first week.
//
// The pass does not repeat, so chains of three may survive partially merged.
func Merge(courses []*timetable.Course, template timetable.Template) []*timetable.Course {
	for i := 0; i < len(courses); {
		if mergeInto(courses[i], courses, template) {
			courses = append(courses[:i], courses[i+1:]...)
			continue
		}
		i++
	}
	return courses
}

func mergeInto(c *timetable.Course, courses []*timetable.Course, template timetable.Template) bool {
	for _, o := range courses {
		if c.DayOfWeek != o.DayOfWeek || c.ClassPhase != o.ClassPhase {
			continue
		}
		if template == timetable.TemplateD && c != o && c.LegacyUID == o.LegacyUID && c.ClassPeriod <= o.ClassPeriod {
			o.ClassPeriod++
			return true
		}
		if c.Name != o.Name || c.Educator != o.Educator || c.Location != o.Location {
			continue
		}
		if timetable.EqualRepetitions(c.Repetitions, o.Repetitions) {
			continue
		}
		o.Repetitions = union(o.Repetitions, c.Repetitions)
		return true
	}
	return false
}

func union(a, b []timetable.Repetition) []timetable.Repetition {
	out := make([]timetable.Repetition, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].FromWeek < out[j].FromWeek })
	return out
}
