package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	xlsxCurrency = "₹"
	xlsxSheet    = "Report"

	kgNumFmt    = `#,##0.00#" KG"`
	moneyNumFmt = `"₹"#,##0.00`
	// countNumFmt is the built-in "0" format.
	countNumFmt = 1
)

type cellStyleKey struct {
	kind CellKind
	bold bool
}

// sheetWriter fills one worksheet row by row and keeps the first error, so
// the layout code reads straight through.
type sheetWriter struct {
	f      *excelize.File
	row    int
	err    error
	styles map[cellStyleKey]int
}

func (w *sheetWriter) cellName(col int) string {
	name, err := excelize.CoordinatesToCellName(col, w.row)
	if err != nil && w.err == nil {
		w.err = err
	}
	return name
}

func (w *sheetWriter) put(col int, v any) {
	if w.err != nil {
		return
	}
	cell := w.cellName(col)
	if w.err != nil {
		return
	}
	if err := w.f.SetCellValue(xlsxSheet, cell, v); err != nil {
		w.err = fmt.Errorf("setting %s: %w", cell, err)
	}
}

func (w *sheetWriter) style(fromCol, toCol, style int) {
	if w.err != nil {
		return
	}
	from, to := w.cellName(fromCol), w.cellName(toCol)
	if w.err != nil {
		return
	}
	if err := w.f.SetCellStyle(xlsxSheet, from, to, style); err != nil {
		w.err = fmt.Errorf("styling %s:%s: %w", from, to, err)
	}
}

// putCell stores numbers as numbers under the number format for their kind.
func (w *sheetWriter) putCell(col int, c Cell, bold bool) {
	if c.Kind == CellText {
		w.put(col, c.Text)
	} else {
		w.put(col, c.Num)
	}
	if style, ok := w.styles[cellStyleKey{c.Kind, bold}]; ok {
		w.style(col, col, style)
	}
}

func newCellStyles(f *excelize.File) (map[cellStyleKey]int, error) {
	kg, money := kgNumFmt, moneyNumFmt
	styles := make(map[cellStyleKey]int)
	for _, bold := range []bool{false, true} {
		defs := map[CellKind]*excelize.Style{
			CellCount: {NumFmt: countNumFmt},
			CellKg:    {CustomNumFmt: &kg},
			CellMoney: {CustomNumFmt: &money},
		}
		if bold {
			defs[CellText] = &excelize.Style{}
		}
		for kind, def := range defs {
			if bold {
				def.Font = &excelize.Font{Bold: true}
			}
			id, err := f.NewStyle(def)
			if err != nil {
				return nil, fmt.Errorf("creating cell style: %w", err)
			}
			styles[cellStyleKey{kind, bold}] = id
		}
	}
	return styles, nil
}

func writeXLSX(out io.Writer, doc *Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16, Color: "00B894"},
	})
	if err != nil {
		return fmt.Errorf("creating title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"00B894"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating bold style: %w", err)
	}
	styles, err := newCellStyles(f)
	if err != nil {
		return err
	}

	w := &sheetWriter{f: f, row: 1, styles: styles}

	w.put(1, doc.Title)
	w.style(1, 1, titleStyle)
	w.row++
	if doc.Subtitle != "" {
		w.put(1, doc.Subtitle)
		w.row++
	}
	w.put(1, doc.Generated)
	w.row += 2

	for _, day := range doc.Days {
		w.put(1, "Date: "+day.Date)
		w.style(1, 1, boldStyle)
		w.row++
		if day.RateLine != "" {
			w.put(1, day.RateLine)
			w.row++
		}

		for i, h := range day.Table.Header {
			w.put(i+1, h)
		}
		w.style(1, len(day.Table.Header), headerStyle)
		w.row++

		for _, cells := range day.Table.Rows {
			for i, c := range cells {
				w.putCell(i+1, c, false)
			}
			w.row++
		}
		for i, c := range day.Table.Total {
			w.putCell(i+1, c, true)
		}
		w.row++

		w.put(1, day.Summary)
		w.style(1, 1, boldStyle)
		w.row += 2
	}

	if len(doc.Grand) > 0 {
		w.put(1, "GRAND SUMMARY")
		w.style(1, 1, titleStyle)
		w.row++
		w.put(1, "Description")
		w.put(2, "Value")
		w.style(1, 2, headerStyle)
		w.row++
		for _, g := range doc.Grand {
			w.put(1, g.Description)
			w.putCell(2, g.Value, false)
			w.row++
		}
	}
	if w.err != nil {
		return fmt.Errorf("filling sheet: %w", w.err)
	}

	if err := f.SetColWidth(xlsxSheet, "A", "E", 22); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("writing xlsx: %w", err)
	}
	return nil
}
