package export

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gotimetable/internal/timetable"
)

// PDFOptions selects the font. Course names are usually CJK, which the core
// fonts cannot draw; FontFile points at a UTF-8 TrueType font to embed.
type PDFOptions struct {
	FontFile string
}

const (
	pdfLabelWidth = 28.0
	pdfLineHeight = 4.5
	pdfFontSize   = 8.0
)

// WritePDF renders the weekly grid on a landscape A4 page.
func WritePDF(path string, tt *timetable.Timetable, opts PDFOptions) error {
	if err := writePDF(path, newGrid(tt), opts); err != nil {
		return fmt.Errorf("%w: pdf %s: %w", timetable.ErrExportFailure, path, err)
	}
	log.Info().Str("path", path).Int("courses", tt.Len()).Msg("pdf written")
	return nil
}

func writePDF(path string, g grid, opts PDFOptions) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	family := "Helvetica"
	if opts.FontFile != "" {
		family = "timetable"
		pdf.AddUTF8Font(family, "", opts.FontFile)
	}
	pdf.SetFont(family, "", pdfFontSize)
	pdf.AddPage()
	if err := pdf.Error(); err != nil {
		return err
	}

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colW := pageW - left - right - pdfLabelWidth
	if n := len(g.columns); n > 0 {
		colW /= float64(n)
	}

	// Header
	pdf.CellFormat(pdfLabelWidth, 7, "", "1", 0, "C", false, 0, "")
	for _, h := range g.columns {
		pdf.CellFormat(colW, 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	for r, label := range g.rows {
		// Row height follows the tallest cell
		lines := 1
		for _, text := range g.cells[r] {
			if n := len(pdf.SplitLines([]byte(text), colW-2)); n > lines {
				lines = n
			}
		}
		h := float64(lines)*pdfLineHeight + 2
		x, y := pdf.GetXY()
		pdf.CellFormat(pdfLabelWidth, h, label, "1", 0, "L", false, 0, "")
		for c, text := range g.cells[r] {
			cx := x + pdfLabelWidth + float64(c)*colW
			pdf.Rect(cx, y, colW, h, "D")
			pdf.SetXY(cx+1, y+1)
			pdf.MultiCell(colW-2, pdfLineHeight, text, "", "L", false)
		}
		pdf.SetXY(x, y+h)
	}
	return pdf.OutputFileAndClose(path)
}
