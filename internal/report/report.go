// Package report renders committed history as a paginated PDF or an XLSX
// workbook: a title block, one table per work day with a day summary line,
// and a grand summary when more than one day is exported.
package report

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/alexanderramin/cotton/internal/domain"
)

// Format is the output document type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "pdf" or "xlsx", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unknown report format %q (want pdf or xlsx)", s)
}

// ParseFormats reads a comma-separated list of formats, or "all" for every
// format. Duplicates are dropped.
func ParseFormats(s string) ([]Format, error) {
	if strings.EqualFold(strings.TrimSpace(s), "all") {
		return []Format{FormatPDF, FormatXLSX}, nil
	}
	var formats []Format
	for _, part := range strings.Split(s, ",") {
		f, err := ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	return formats, nil
}

// Layout selects the per-day table columns.
type Layout string

const (
	// LayoutDateRate groups by Date / Rate per KG / Worker Name / Total KG.
	LayoutDateRate Layout = "date-rate"
	// LayoutSerial numbers rows: # / Worker Name / KG / Rate / Total.
	LayoutSerial Layout = "serial"
)

// ParseLayout accepts "date-rate" or "serial".
func ParseLayout(s string) (Layout, error) {
	switch l := Layout(strings.ToLower(strings.TrimSpace(s))); l {
	case LayoutDateRate, LayoutSerial:
		return l, nil
	}
	return "", fmt.Errorf("unknown report layout %q (want date-rate or serial)", s)
}

const (
	Title          = "Cotton Workers Report"
	bilingualTitle = "कपास कामगार रिपोर्ट"
	AppName        = "Cotton Tracker App"

	dayFilePrefix = "CottonReport_"
	fullFileStem  = "CottonFullReport"
)

// DayFilename is the file name for a single-day export:
// CottonReport_05012024.pdf for 05-01-2024.
func DayFilename(date string, f Format) string {
	return dayFilePrefix + domain.CompactWorkDate(date) + "." + string(f)
}

// FullFilename is the fixed file name for a full-history export.
func FullFilename(f Format) string {
	return fullFileStem + "." + string(f)
}

// Options control document content that does not come from the records.
type Options struct {
	Layout      Layout
	Bilingual   bool
	GeneratedAt time.Time
}

// CellKind says how a spreadsheet stores a cell.
type CellKind int

const (
	CellText CellKind = iota
	CellCount
	CellKg
	CellMoney
)

// Cell is one table or summary value. Text is the printed form. For kinds
// other than CellText, Num is the number behind it.
type Cell struct {
	Text string
	Num  float64
	Kind CellKind
}

func textCell(s string) Cell { return Cell{Text: s} }

func countCell(n int, s string) Cell { return Cell{Text: s, Num: float64(n), Kind: CellCount} }

func kgCell(v float64, s string) Cell { return Cell{Text: s, Num: v, Kind: CellKg} }

func moneyCell(v float64, s string) Cell { return Cell{Text: s, Num: v, Kind: CellMoney} }

// Texts returns the printed form of each cell.
func Texts(cells []Cell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.Text
	}
	return out
}

// Table is one day's grid. NameCol is the column holding worker names.
type Table struct {
	Header  []string
	Rows    [][]Cell
	Total   []Cell
	NameCol int
}

// Day is the section rendered for one history record.
type Day struct {
	Date     string
	RateLine string
	Table    Table
	Summary  string
}

// SummaryRow is one description/value pair of the grand summary.
type SummaryRow struct {
	Description string
	Value       Cell
}

// Document is the format-neutral content of a report.
type Document struct {
	Title     string
	Subtitle  string
	Generated string
	Days      []Day
	Grand     []SummaryRow
}

// Build lays out records in the given order. currency prefixes money values;
// the PDF core fonts cannot draw the rupee sign so each writer picks its own.
func Build(records []*domain.HistoryRecord, opts Options, currency string) *Document {
	doc := &Document{
		Title:     Title,
		Generated: "Generated: " + opts.GeneratedAt.Format("02-01-2006 15:04"),
	}
	if opts.Bilingual {
		doc.Subtitle = bilingualTitle
	}

	for _, rec := range records {
		day := Day{
			Date:  rec.Date,
			Table: buildTable(rec, opts.Layout, currency),
			Summary: fmt.Sprintf("Day Total: %d Workers, %s KG, %s%s",
				rec.TotalWorkers, fixed2(rec.TotalKg), currency, fixed2(rec.TotalAmount)),
		}
		if rate, ok := rec.CommonRate(); ok {
			day.RateLine = "Rate per KG: " + currency + plain(rate)
		}
		doc.Days = append(doc.Days, day)
	}

	if len(records) > 1 {
		o := domain.Summarize(records)
		avgAmount, avgKg := o.AveragePerDay()
		doc.Grand = []SummaryRow{
			{"Total Days", countCell(o.Days, fmt.Sprintf("%d days", o.Days))},
			{"Total Workers (All Days)", countCell(o.Workers, fmt.Sprintf("%d workers", o.Workers))},
			{"Total KG Collected", kgCell(o.Kg, fixed2(o.Kg)+" KG")},
			{"Total Amount Paid", moneyCell(o.Amount, currency+fixed2(o.Amount))},
			{"Average per Day", moneyCell(avgAmount, currency+fixed2(avgAmount))},
			{"Average KG per Day", kgCell(avgKg, fixed2(avgKg)+" KG")},
		}
	}
	return doc
}

func buildTable(rec *domain.HistoryRecord, layout Layout, currency string) Table {
	if layout == LayoutSerial {
		t := Table{
			Header:  []string{"#", "Worker Name", "KG", "Rate", "Total"},
			NameCol: 1,
		}
		for i, e := range rec.Entries {
			t.Rows = append(t.Rows, []Cell{
				countCell(i+1, strconv.Itoa(i+1)),
				textCell(e.Name),
				kgCell(e.Kg, plain(e.Kg)),
				moneyCell(e.Rate, currency+plain(e.Rate)),
				moneyCell(e.Total, currency+fixed2(e.Total)),
			})
		}
		t.Total = []Cell{
			textCell(""),
			textCell(fmt.Sprintf("TOTAL (%d Workers)", rec.TotalWorkers)),
			kgCell(rec.TotalKg, fixed2(rec.TotalKg)),
			textCell("-"),
			moneyCell(rec.TotalAmount, currency+fixed2(rec.TotalAmount)),
		}
		return t
	}

	t := Table{
		Header:  []string{"Date", "Rate per KG", "Worker Name", "Total KG Collected"},
		NameCol: 2,
	}
	for _, e := range rec.Entries {
		t.Rows = append(t.Rows, []Cell{
			textCell(rec.Date),
			moneyCell(e.Rate, currency+plain(e.Rate)),
			textCell(e.Name),
			kgCell(e.Kg, plain(e.Kg)+" KG"),
		})
	}
	t.Total = []Cell{
		textCell("TOTAL"),
		textCell("-"),
		textCell(fmt.Sprintf("%d Workers", rec.TotalWorkers)),
		kgCell(rec.TotalKg, fixed2(rec.TotalKg)+" KG"),
	}
	return t
}

// Render writes records in format f.
func Render(w io.Writer, f Format, records []*domain.HistoryRecord, opts Options) error {
	switch f {
	case FormatPDF:
		return writePDF(w, Build(records, opts, pdfCurrency))
	case FormatXLSX:
		return writeXLSX(w, Build(records, opts, xlsxCurrency))
	}
	return fmt.Errorf("unknown report format %q", f)
}

// TruncateName shortens long names for fixed-width table cells. Names in
// Devanagari are cut earlier because their glyphs run wider.
func TruncateName(name string) string {
	limit, keep := 30, 27
	if hasDevanagari(name) {
		limit, keep = 25, 22
	}
	if utf8.RuneCountInString(name) <= limit {
		return name
	}
	return string([]rune(name)[:keep]) + "..."
}

func hasDevanagari(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Devanagari, r) {
			return true
		}
	}
	return false
}

func fixed2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// plain prints v with no trailing zeros: 8, 8.5, 12.125.
func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
