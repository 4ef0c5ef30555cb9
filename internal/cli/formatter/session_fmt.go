package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/cotton/internal/domain"
)

// FormatSession renders the open session, most recent entry first, with the
// running totals underneath.
func FormatSession(entries []*domain.SessionEntry, stats domain.Totals, l Labels) string {
	var b strings.Builder
	if len(entries) == 0 {
		b.WriteString(Dim(l.Empty))
		b.WriteString("\n\n")
	} else {
		headers := []string{"ID", l.Worker, l.Kg, l.Rate, l.Total, l.Date, l.Added}
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{
				strconv.FormatInt(e.ID, 10),
				e.Name,
				Kg(e.Kg),
				Money(e.Rate),
				Money(e.Total),
				e.Date,
				Dim(e.Timestamp.Local().Format("15:04")),
			})
		}
		b.WriteString(RenderTable(headers, rows, 0, 2, 3, 4))
		b.WriteString("\n")
	}
	b.WriteString(FormatTotals(stats, l))
	return RenderBox(l.Session, b.String())
}

// FormatTotals renders one line of worker count, kg and amount.
func FormatTotals(t domain.Totals, l Labels) string {
	return fmt.Sprintf("%s %s   %s %s   %s %s",
		Dim(l.Workers+":"), Bold(strconv.Itoa(t.Workers)),
		Dim(l.Kg+":"), Bold(Kg(t.Kg)),
		Dim(l.Amount+":"), StyleGreen.Render(Money(t.Amount)),
	)
}
