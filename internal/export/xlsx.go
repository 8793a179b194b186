package export

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/hyperifyio/gotimetable/internal/timetable"
)

const sheetName = "Timetable"

// WriteXLSX renders the weekly grid as a spreadsheet: weekdays across, session
// rows down.
func WriteXLSX(path string, tt *timetable.Timetable) error {
	if err := writeXLSX(path, newGrid(tt)); err != nil {
		return fmt.Errorf("%w: xlsx %s: %w", timetable.ErrExportFailure, path, err)
	}
	log.Info().Str("path", path).Int("courses", tt.Len()).Msg("spreadsheet written")
	return nil
}

func writeXLSX(path string, g grid) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	wrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}

	// Header row
	for i, h := range g.columns {
		cell, _ := excelize.CoordinatesToCellName(i+2, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}

	// Session rows
	for r, label := range g.rows {
		rowIdx := r + 2
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
		if err := f.SetCellValue(sheetName, cell, label); err != nil {
			return err
		}
		for c, text := range g.cells[r] {
			if text == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+2, rowIdx)
			if err := f.SetCellValue(sheetName, cell, text); err != nil {
				return err
			}
		}
	}

	if len(g.rows) > 0 && len(g.columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(g.columns)+1, len(g.rows)+1)
		if err := f.SetCellStyle(sheetName, "B2", last, wrap); err != nil {
			return err
		}
		lastCol, _ := excelize.ColumnNumberToName(len(g.columns) + 1)
		if err := f.SetColWidth(sheetName, "B", lastCol, 24); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
