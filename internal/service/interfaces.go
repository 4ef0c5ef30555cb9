package service

import (
	"context"

	"github.com/alexanderramin/cotton/internal/domain"
	"github.com/alexanderramin/cotton/internal/report"
)

// AddEntryInput is a new session entry as typed by the user. KgExpr may be
// an arithmetic expression such as "12+8.5".
type AddEntryInput struct {
	Name   string
	KgExpr string
	Rate   float64
	Date   string
}

// SessionView is the open session after an operation: entries most recent
// first, with their aggregate stats.
type SessionView struct {
	Entries []*domain.SessionEntry
	Stats   domain.Totals
}

type SessionService interface {
	AddEntry(ctx context.Context, in AddEntryInput) (*SessionView, error)
	UpdateEntry(ctx context.Context, id int64, u domain.EntryUpdate) (*SessionView, error)
	DeleteEntry(ctx context.Context, id int64) (*SessionView, error)
	// ClearSession removes every open entry and returns how many there were.
	ClearSession(ctx context.Context) (int64, error)
	// List returns the session, or only the entries for date when it is set.
	List(ctx context.Context, date string) (*SessionView, error)
}

// CompleteDayInput selects the day to commit. An empty Date means the work
// date the session entries share. Merge allows adding to an existing record.
type CompleteDayInput struct {
	Date  string
	Merge bool
}

// CommitResult describes a completed day.
type CommitResult struct {
	Record    *domain.HistoryRecord
	Committed int
	Merged    bool
}

// DeleteEntryResult is the record left after removing an entry. Record is
// nil when the removed entry was the last one and the record was deleted.
type DeleteEntryResult struct {
	Record        *domain.HistoryRecord
	RecordDeleted bool
}

type HistoryService interface {
	CompleteDay(ctx context.Context, in CompleteDayInput) (*CommitResult, error)
	Exists(ctx context.Context, date string) (bool, error)
	Get(ctx context.Context, date string) (*domain.HistoryRecord, error)
	List(ctx context.Context) ([]*domain.HistoryRecord, error)
	// Search matches the date or any worker name, case-insensitively.
	Search(ctx context.Context, term string) ([]*domain.HistoryRecord, error)
	EditEntry(ctx context.Context, date, entryID string, u domain.EntryUpdate) (*domain.HistoryRecord, error)
	DeleteEntry(ctx context.Context, date, entryID string) (*DeleteEntryResult, error)
	DeleteDay(ctx context.Context, date string) error
	Overview(ctx context.Context) (domain.Overview, error)
}

type DraftService interface {
	// Fields lists the draft fields this configuration keeps.
	Fields() []domain.DraftField
	Save(ctx context.Context, field domain.DraftField, value string) error
	Load(ctx context.Context) (map[domain.DraftField]string, error)
	Clear(ctx context.Context, fields ...domain.DraftField) error
	// ClearSubmitted drops the drafts a successful add consumes. Rate is kept.
	ClearSubmitted(ctx context.Context) error
}

// ExportResult is where a report ended up.
type ExportResult struct {
	Path     string
	Days     int
	FellBack bool
}

// ReportService writes one file per requested format, PDF when none is
// given. Several formats are rendered concurrently from a single read.
type ReportService interface {
	ExportDay(ctx context.Context, date, dir string, formats ...report.Format) ([]*ExportResult, error)
	ExportAll(ctx context.Context, dir string, formats ...report.Format) ([]*ExportResult, error)
}
