package export

import (
	"fmt"
	"strings"

	"github.com/hyperifyio/gotimetable/internal/timetable"
)

var weekdayNames = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var sessionNames = [...]string{"Morning", "Afternoon", "Evening"}

// grid is the weekly layout shared by the spreadsheet and PDF renderers:
// row labels, column labels and the text of each cell.
type grid struct {
	rows    []string
	columns []string
	cells   [][]string
}

func newGrid(tt *timetable.Timetable) grid {
	tt.Layout()
	g := grid{columns: weekdayNames[:tt.Columns]}
	for s, n := range []int{tt.MorningRows, tt.AfternoonRows, tt.EveningRows} {
		for i := 1; i <= n; i++ {
			g.rows = append(g.rows, fmt.Sprintf("%s %d", sessionNames[s], i))
		}
	}
	g.cells = make([][]string, len(g.rows))
	for i := range g.cells {
		g.cells[i] = make([]string, len(g.columns))
	}
	for _, c := range tt.Courses {
		row, col := tt.Row(c), c.DayOfWeek-1
		if row < 0 || row >= len(g.rows) || col < 0 || col >= len(g.columns) {
			continue
		}
		text := courseText(c)
		if g.cells[row][col] != "" {
			text = g.cells[row][col] + "\n\n" + text
		}
		g.cells[row][col] = text
	}
	return g
}

func courseText(c *timetable.Course) string {
	lines := []string{c.Name}
	for _, s := range []string{c.Location, c.Educator, timetable.FormatRepetitions(c.Repetitions)} {
		if strings.TrimSpace(s) != "" {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "\n")
}
