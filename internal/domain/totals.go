package domain

// Totals aggregates a list of entries: worker count, kg and amount, the
// sums rounded to 2 places.
type Totals struct {
	Workers int
	Kg      float64
	Amount  float64
}

// SessionTotals aggregates the open session.
func SessionTotals(entries []*SessionEntry) Totals {
	kgs := make([]float64, 0, len(entries))
	amounts := make([]float64, 0, len(entries))
	for _, e := range entries {
		kgs = append(kgs, e.Kg)
		amounts = append(amounts, e.Total)
	}
	return Totals{Workers: len(entries), Kg: sum(kgs), Amount: sum(amounts)}
}

// HistoryTotals aggregates committed entries.
func HistoryTotals(entries []HistoryEntry) Totals {
	kgs := make([]float64, 0, len(entries))
	amounts := make([]float64, 0, len(entries))
	for _, e := range entries {
		kgs = append(kgs, e.Kg)
		amounts = append(amounts, e.Total)
	}
	return Totals{Workers: len(entries), Kg: sum(kgs), Amount: sum(amounts)}
}

// Overview summarises every history record.
type Overview struct {
	Days int
	Totals
}

// AveragePerDay returns the mean amount and kg per recorded day.
func (o Overview) AveragePerDay() (amount, kg float64) {
	if o.Days == 0 {
		return 0, 0
	}
	return Round(o.Amount/float64(o.Days), 2), Round(o.Kg/float64(o.Days), 2)
}

// Summarize sums the per-record aggregates.
func Summarize(records []*HistoryRecord) Overview {
	o := Overview{Days: len(records)}
	kgs := make([]float64, 0, len(records))
	amounts := make([]float64, 0, len(records))
	for _, r := range records {
		o.Workers += r.TotalWorkers
		kgs = append(kgs, r.TotalKg)
		amounts = append(amounts, r.TotalAmount)
	}
	o.Kg = sum(kgs)
	o.Amount = sum(amounts)
	return o
}
