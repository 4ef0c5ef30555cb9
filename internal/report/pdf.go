package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pdfCurrency = "Rs."
	pdfMargin   = 20.0
	// pdfBreakY starts a new page before a day header that would land this low.
	pdfBreakY = 240.0
)

var (
	accent     = [3]int{0, 184, 148}
	grandHead  = [3]int{40, 167, 69}
	stripeFill = [3]int{248, 249, 250}
)

// Column widths in mm for each layout, matched by header count.
var pdfColumnWidths = map[int][]float64{
	4: {30, 25, 60, 45},
	5: {12, 68, 25, 25, 30},
}

func writePDF(w io.Writer, doc *Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, 25)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "L", false, 0, "")
		pdf.SetX(pdfMargin)
		pdf.CellFormat(pageW-2*pdfMargin, 5, AppName, "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	setText(pdf, accent)
	pdf.CellFormat(0, 10, tr(doc.Title), "", 1, "L", false, 0, "")
	// Devanagari needs an embedded font the core set does not have, so the
	// bilingual subtitle is left to the XLSX export.

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 8, tr(doc.Generated), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	for _, day := range doc.Days {
		if pdf.GetY() > pdfBreakY {
			pdf.AddPage()
		}

		pdf.SetFont("Helvetica", "B", 16)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 8, "Date: "+day.Date, "", 1, "L", false, 0, "")

		if day.RateLine != "" {
			pdf.SetFont("Helvetica", "", 12)
			pdf.SetTextColor(60, 60, 60)
			pdf.CellFormat(0, 8, tr(day.RateLine), "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)

		writePDFTable(pdf, tr, day.Table)
		pdf.Ln(6)

		pdf.SetFont("Helvetica", "B", 12)
		setText(pdf, accent)
		pdf.CellFormat(0, 8, tr(day.Summary), "", 1, "L", false, 0, "")
		pdf.Ln(6)
	}

	if len(doc.Grand) > 0 {
		if pdf.GetY() > pdfBreakY {
			pdf.AddPage()
		}
		pdf.SetFont("Helvetica", "B", 18)
		setText(pdf, accent)
		pdf.CellFormat(0, 10, "GRAND SUMMARY", "", 1, "L", false, 0, "")
		pdf.Ln(4)

		widths := []float64{90, 80}
		pdf.SetFont("Helvetica", "B", 12)
		setFill(pdf, grandHead)
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(widths[0], 9, "Description", "1", 0, "L", true, 0, "")
		pdf.CellFormat(widths[1], 9, "Value", "1", 1, "L", true, 0, "")

		pdf.SetFont("Helvetica", "", 12)
		pdf.SetTextColor(0, 0, 0)
		setFill(pdf, stripeFill)
		for i, row := range doc.Grand {
			stripe := i%2 == 1
			pdf.CellFormat(widths[0], 9, tr(row.Description), "1", 0, "L", stripe, 0, "")
			pdf.CellFormat(widths[1], 9, tr(row.Value.Text), "1", 1, "L", stripe, 0, "")
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

func writePDFTable(pdf *fpdf.Fpdf, tr func(string) string, t Table) {
	widths := pdfColumnWidths[len(t.Header)]

	pdf.SetFont("Helvetica", "B", 11)
	setFill(pdf, accent)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range t.Header {
		pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	setFill(pdf, stripeFill)
	for r, row := range t.Rows {
		stripe := r%2 == 1
		for i, cell := range row {
			text := cell.Text
			if i == t.NameCol {
				text = TruncateName(text)
			}
			pdf.CellFormat(widths[i], 7, tr(text), "1", 0, "L", stripe, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 10)
	for i, cell := range t.Total {
		pdf.CellFormat(widths[i], 7, tr(cell.Text), "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}

func setText(pdf *fpdf.Fpdf, c [3]int) { pdf.SetTextColor(c[0], c[1], c[2]) }
func setFill(pdf *fpdf.Fpdf, c [3]int) { pdf.SetFillColor(c[0], c[1], c[2]) }
