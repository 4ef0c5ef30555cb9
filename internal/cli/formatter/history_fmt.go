package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/cotton/internal/domain"
)

// FormatHistoryList renders one row per committed day.
func FormatHistoryList(records []*domain.HistoryRecord, l Labels) string {
	if len(records) == 0 {
		return RenderBox(l.History, Dim("No history yet."))
	}
	headers := []string{l.Date, "", l.Workers, l.Kg, l.Amount}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Date,
			Dim(domain.DisplayWorkDate(r.Date)),
			strconv.Itoa(r.TotalWorkers),
			Kg(r.TotalKg),
			Money(r.TotalAmount),
		})
	}
	return RenderBox(l.History, RenderTable(headers, rows, 2, 3, 4))
}

// FormatHistoryRecord renders one day with its numbered entries. The
// numbers are the positions accepted by the history edit commands.
func FormatHistoryRecord(r *domain.HistoryRecord, l Labels) string {
	var b strings.Builder
	b.WriteString(Dim(fmt.Sprintf("%s  ·  completed %s",
		domain.DisplayWorkDate(r.Date), r.CompletedAt.Local().Format("02-01-2006 15:04"))))
	b.WriteString("\n\n")

	headers := []string{"#", "ID", l.Worker, l.Kg, l.Rate, l.Total, l.Share}
	rows := make([][]string, 0, len(r.Entries))
	for i, e := range r.Entries {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			TruncID(e.ID),
			e.Name,
			Kg(e.Kg),
			Money(e.Rate),
			Money(e.Total),
			RenderShare(e.Kg, r.TotalKg, 10),
		})
	}
	b.WriteString(RenderTable(headers, rows, 0, 3, 4, 5))
	b.WriteString("\n")
	b.WriteString(FormatTotals(r.Totals(), l))
	return RenderBox(r.Date, b.String())
}
