package timetable

import "sort"

// Timetable is the ordered course collection produced by one parse.
type Timetable struct {
	Courses []*Course

	// Grid shape computed by Layout.
	Rows          int
	Columns       int
	MorningRows   int
	AfternoonRows int
	EveningRows   int
}

// New wraps courses in a Timetable.
func New(courses []*Course) *Timetable {
	return &Timetable{Courses: courses}
}

// Len returns the number of courses.
func (t *Timetable) Len() int { return len(t.Courses) }

// RenderUIDs recomputes the lesson identities after the course set changed.
func (t *Timetable) RenderUIDs() {
	for i, c := range t.Courses {
		c.RenderLegacyUID()
		c.RenderUID = i + 1
	}
}

// Layout computes the grid shape and each course's position, then sorts the
// courses by position.
func (t *Timetable) Layout() {
	var used [3][3]bool
	weekend := false
	for _, c := range t.Courses {
		s, sub := c.Session(), c.SubSlot()
		if s <= 3 && sub <= 3 {
			used[s-1][sub-1] = true
		}
		if c.DayOfWeek == Saturday || c.DayOfWeek == Sunday {
			weekend = true
		}
	}
	t.MorningRows = sessionRows(used[0])
	t.AfternoonRows = sessionRows(used[1])
	t.EveningRows = sessionRows(used[2])
	t.Rows = t.MorningRows + t.AfternoonRows + t.EveningRows
	t.Columns = 5
	if weekend {
		t.Columns = 7
	}
	for _, c := range t.Courses {
		c.Schedule = t.Row(c)*t.Columns + c.DayOfWeek
	}
	sort.SliceStable(t.Courses, func(i, j int) bool {
		return t.Courses[i].Schedule < t.Courses[j].Schedule
	})
}

// Row is the zero-based grid row of a course. Layout must have run.
func (t *Timetable) Row(c *Course) int {
	row := c.SubSlot() - 1
	switch c.Session() {
	case 2:
		row += t.MorningRows
	case 3:
		row += t.MorningRows + t.AfternoonRows
	}
	return row
}

// sessionRows is the number of grid rows a session needs: the highest used
// sub-slot.
func sessionRows(used [3]bool) int {
	switch {
	case used[2]:
		return 3
	case used[1]:
		return 2
	case used[0]:
		return 1
	}
	return 0
}
