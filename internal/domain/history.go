package domain

import (
	"fmt"
	"time"
)

// HistoryEntry is a committed entry. ID is assigned at commit time and stays
// stable across edits and deletions of its siblings.
type HistoryEntry struct {
	ID    string
	Name  string
	Kg    float64
	Rate  float64
	Total float64
}

// HistoryRecord is the committed aggregate for one work date.
type HistoryRecord struct {
	Date         string
	Entries      []HistoryEntry
	TotalWorkers int
	TotalKg      float64
	TotalAmount  float64
	CompletedAt  time.Time
	UpdatedAt    time.Time
	// Version is bumped on every write and checked on update.
	Version int
}

// NewHistoryRecord builds a record for date from the session, dropping the
// session IDs and timestamps. newID supplies entry identifiers.
func NewHistoryRecord(date string, session []*SessionEntry, newID func() string, now time.Time) (*HistoryRecord, error) {
	d, err := NormalizeWorkDate(date)
	if err != nil {
		return nil, err
	}
	r := &HistoryRecord{
		Date:        d,
		Entries:     make([]HistoryEntry, 0, len(session)),
		CompletedAt: now,
		UpdatedAt:   now,
	}
	for _, e := range session {
		r.Entries = append(r.Entries, HistoryEntry{
			ID:    newID(),
			Name:  e.Name,
			Kg:    e.Kg,
			Rate:  e.Rate,
			Total: LineTotal(e.Kg, e.Rate),
		})
	}
	r.Recompute()
	return r, nil
}

// Recompute derives all three aggregates from the entries.
func (r *HistoryRecord) Recompute() {
	t := HistoryTotals(r.Entries)
	r.TotalWorkers = t.Workers
	r.TotalKg = t.Kg
	r.TotalAmount = t.Amount
}

// Totals returns the record's aggregates.
func (r *HistoryRecord) Totals() Totals {
	return Totals{Workers: r.TotalWorkers, Kg: r.TotalKg, Amount: r.TotalAmount}
}

// Merge appends the entries of a later commit for the same date. The first
// CompletedAt is kept.
func (r *HistoryRecord) Merge(later *HistoryRecord, now time.Time) error {
	if later.Date != r.Date {
		return fmt.Errorf("cannot merge %s into %s", later.Date, r.Date)
	}
	r.Entries = append(r.Entries, later.Entries...)
	r.Recompute()
	r.UpdatedAt = now
	return nil
}

// EntryIndex returns the position of the entry with the given ID, or -1.
func (r *HistoryRecord) EntryIndex(id string) int {
	for i := range r.Entries {
		if r.Entries[i].ID == id {
			return i
		}
	}
	return -1
}

// ReplaceEntry applies an edit to the entry with the given ID and
// recomputes the aggregates. It reports false when the ID is unknown.
func (r *HistoryRecord) ReplaceEntry(id string, u EntryUpdate, now time.Time) (bool, error) {
	i := r.EntryIndex(id)
	if i < 0 {
		return false, nil
	}
	u, err := u.Validate()
	if err != nil {
		return true, err
	}
	r.Entries[i].Name = u.Name
	r.Entries[i].Kg = u.Kg
	r.Entries[i].Rate = u.Rate
	r.Entries[i].Total = LineTotal(u.Kg, u.Rate)
	r.Recompute()
	r.UpdatedAt = now
	return true, nil
}

// RemoveEntry drops the entry with the given ID and recomputes the
// aggregates. It reports false when the ID is unknown.
func (r *HistoryRecord) RemoveEntry(id string, now time.Time) bool {
	i := r.EntryIndex(id)
	if i < 0 {
		return false
	}
	r.Entries = append(r.Entries[:i], r.Entries[i+1:]...)
	r.Recompute()
	r.UpdatedAt = now
	return true
}

// IsEmpty reports whether the record has no entries left.
func (r *HistoryRecord) IsEmpty() bool {
	return len(r.Entries) == 0
}

// CommonRate returns the rate shared by every entry, if there is one.
func (r *HistoryRecord) CommonRate() (float64, bool) {
	if len(r.Entries) == 0 {
		return 0, false
	}
	rate := r.Entries[0].Rate
	for _, e := range r.Entries[1:] {
		if e.Rate != rate {
			return 0, false
		}
	}
	return rate, true
}
