package formatter

import (
	"strconv"
	"strings"

	"github.com/alexanderramin/cotton/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// FormatOverview renders the totals across every recorded day.
func FormatOverview(o domain.Overview, l Labels) string {
	avgAmount, avgKg := o.AveragePerDay()
	pairs := [][2]string{
		{l.Days, Bold(strconv.Itoa(o.Days))},
		{l.Workers, Bold(strconv.Itoa(o.Workers))},
		{l.Kg, Bold(Kg(o.Kg))},
		{l.Amount, StyleGreen.Render(Money(o.Amount))},
		{"avg " + l.Amount + " / day", Money(avgAmount)},
		{"avg " + l.Kg + " / day", Kg(avgKg)},
	}
	return RenderBox(l.Overview, keyValues(pairs))
}

func keyValues(pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		width = max(width, lipgloss.Width(p[0]))
	}
	lines := make([]string, 0, len(pairs))
	for _, p := range pairs {
		pad := strings.Repeat(" ", width-lipgloss.Width(p[0]))
		lines = append(lines, Dim(p[0])+pad+"  "+p[1])
	}
	return strings.Join(lines, "\n")
}
