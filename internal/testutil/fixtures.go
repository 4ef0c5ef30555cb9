package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/cotton/internal/domain"
	"github.com/google/uuid"
)

// TestDate is the default work date for fixtures.
const TestDate = "05-01-2024"

var testClock atomic.Int64

// nextTimestamp hands out strictly increasing timestamps so fixtures created
// in a row keep their creation order.
func nextTimestamp() time.Time {
	n := testClock.Add(1)
	return time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Second)
}

// SessionEntry options
type EntryOption func(*domain.SessionEntry)

func WithDate(date string) EntryOption {
	return func(e *domain.SessionEntry) {
		e.Date = date
	}
}

func WithRate(rate float64) EntryOption {
	return func(e *domain.SessionEntry) {
		e.Rate = rate
	}
}

func WithTimestamp(ts time.Time) EntryOption {
	return func(e *domain.SessionEntry) {
		e.Timestamp = ts
	}
}

// NewTestEntry builds a session entry at rate 10 on TestDate. The total is
// computed after options apply.
func NewTestEntry(name string, kg float64, opts ...EntryOption) *domain.SessionEntry {
	e := &domain.SessionEntry{
		Name:      name,
		Kg:        kg,
		Rate:      10,
		Date:      TestDate,
		Timestamp: nextTimestamp(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Total = domain.LineTotal(e.Kg, e.Rate)
	return e
}

// HistoryRecord options
type RecordOption func(*domain.HistoryRecord)

func WithCompletedAt(t time.Time) RecordOption {
	return func(r *domain.HistoryRecord) {
		r.CompletedAt = t
		r.UpdatedAt = t
	}
}

// WithEntry appends a committed entry.
func WithEntry(name string, kg, rate float64) RecordOption {
	return WithEntryID(uuid.New().String(), name, kg, rate)
}

// WithEntryID appends a committed entry with a fixed ID.
func WithEntryID(id, name string, kg, rate float64) RecordOption {
	return func(r *domain.HistoryRecord) {
		r.Entries = append(r.Entries, domain.HistoryEntry{
			ID:    id,
			Name:  name,
			Kg:    kg,
			Rate:  rate,
			Total: domain.LineTotal(kg, rate),
		})
	}
}

// NewTestRecord builds a history record for date. Without WithEntry options
// it holds two workers at rate 10. Aggregates are recomputed after options.
func NewTestRecord(date string, opts ...RecordOption) *domain.HistoryRecord {
	now := nextTimestamp()
	r := &domain.HistoryRecord{
		Date:        date,
		CompletedAt: now,
		UpdatedAt:   now,
		Version:     1,
	}
	for _, opt := range opts {
		opt(r)
	}
	if len(r.Entries) == 0 {
		WithEntry("Asha", 40, 10)(r)
		WithEntry("Ravi", 35.5, 10)(r)
	}
	r.Recompute()
	return r
}

// Names returns the entry names of a record, in order.
func Names(r *domain.HistoryRecord) []string {
	names := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		names[i] = e.Name
	}
	return names
}

// WorkerName returns a distinct fixture name for index i.
func WorkerName(i int) string {
	return fmt.Sprintf("Worker-%02d", i)
}
