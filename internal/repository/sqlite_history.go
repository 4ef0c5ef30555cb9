package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/cotton/internal/db"
	"github.com/alexanderramin/cotton/internal/domain"
)

const historyColumns = `work_date, total_workers, total_kg, total_amount, completed_at, updated_at, version`

// SQLiteHistoryRepo implements HistoryRepo using a SQLite database.
// A record and its entries are written together; callers wanting the pair
// to be atomic run the repo on a transaction from db.UnitOfWork.
type SQLiteHistoryRepo struct {
	db db.DBTX
}

// NewSQLiteHistoryRepo creates a new SQLiteHistoryRepo.
func NewSQLiteHistoryRepo(db db.DBTX) *SQLiteHistoryRepo {
	return &SQLiteHistoryRepo{db: db}
}

// Get loads the record for date with its entries in order.
func (r *SQLiteHistoryRepo) Get(ctx context.Context, date string) (*domain.HistoryRecord, error) {
	query := `SELECT ` + historyColumns + ` FROM history_records WHERE work_date = ?`
	rec, err := scanHistoryRecord(r.db.QueryRowContext(ctx, query, date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("history record %s: %w", date, ErrNotFound)
		}
		return nil, err
	}

	entries, err := r.listEntries(ctx, `WHERE work_date = ?`, date)
	if err != nil {
		return nil, err
	}
	rec.Entries = entries[date]
	if rec.Entries == nil {
		rec.Entries = []domain.HistoryEntry{}
	}
	return rec, nil
}

// List returns every record with its entries, oldest work date first.
func (r *SQLiteHistoryRepo) List(ctx context.Context) ([]*domain.HistoryRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+historyColumns+` FROM history_records`)
	if err != nil {
		return nil, fmt.Errorf("listing history records: %w", err)
	}
	var records []*domain.HistoryRecord
	for rows.Next() {
		rec, err := scanHistoryRecord(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating history records: %w", err)
	}
	rows.Close()

	entries, err := r.listEntries(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		rec.Entries = entries[rec.Date]
		if rec.Entries == nil {
			rec.Entries = []domain.HistoryEntry{}
		}
	}

	domain.SortRecordsByDate(records)
	return records, nil
}

// Create inserts a new record at version 1 along with its entries.
func (r *SQLiteHistoryRepo) Create(ctx context.Context, rec *domain.HistoryRecord) error {
	query := `INSERT INTO history_records (` + historyColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rec.Date,
		rec.TotalWorkers,
		rec.TotalKg,
		rec.TotalAmount,
		formatTime(rec.CompletedAt),
		formatTime(rec.UpdatedAt),
		1,
	)
	if err != nil {
		return fmt.Errorf("inserting history record: %w", err)
	}
	rec.Version = 1
	return r.insertEntries(ctx, rec)
}

// Update writes aggregates and replaces the entry list. The write only
// applies if the stored version still equals rec.Version; on success the
// version is bumped in place.
func (r *SQLiteHistoryRepo) Update(ctx context.Context, rec *domain.HistoryRecord) error {
	query := `UPDATE history_records
		SET total_workers = ?, total_kg = ?, total_amount = ?, updated_at = ?, version = version + 1
		WHERE work_date = ? AND version = ?`
	res, err := r.db.ExecContext(ctx, query,
		rec.TotalWorkers,
		rec.TotalKg,
		rec.TotalAmount,
		formatTime(rec.UpdatedAt),
		rec.Date,
		rec.Version,
	)
	if err != nil {
		return fmt.Errorf("updating history record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating history record: reading affected rows: %w", err)
	}
	if n == 0 {
		var exists int
		err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history_records WHERE work_date = ?`, rec.Date).Scan(&exists)
		if err != nil {
			return fmt.Errorf("checking history record: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("history record %s: %w", rec.Date, ErrNotFound)
		}
		return fmt.Errorf("history record %s at version %d: %w", rec.Date, rec.Version, ErrConflict)
	}
	rec.Version++

	if _, err := r.db.ExecContext(ctx, `DELETE FROM history_entries WHERE work_date = ?`, rec.Date); err != nil {
		return fmt.Errorf("clearing history entries: %w", err)
	}
	return r.insertEntries(ctx, rec)
}

// Delete removes a record; its entries cascade.
func (r *SQLiteHistoryRepo) Delete(ctx context.Context, date string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM history_records WHERE work_date = ?`, date)
	if err != nil {
		return fmt.Errorf("deleting history record: %w", err)
	}
	return expectOneRow(res, "history record "+date)
}

func (r *SQLiteHistoryRepo) insertEntries(ctx context.Context, rec *domain.HistoryRecord) error {
	query := `INSERT INTO history_entries (id, work_date, position, name, kg, rate, total)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	for i, e := range rec.Entries {
		if _, err := r.db.ExecContext(ctx, query, e.ID, rec.Date, i, e.Name, e.Kg, e.Rate, e.Total); err != nil {
			return fmt.Errorf("inserting history entry %d: %w", i, err)
		}
	}
	return nil
}

// listEntries returns entries grouped by work date, each group in position order.
func (r *SQLiteHistoryRepo) listEntries(ctx context.Context, where string, args ...any) (map[string][]domain.HistoryEntry, error) {
	query := `SELECT id, work_date, name, kg, rate, total FROM history_entries ` + where +
		` ORDER BY work_date, position`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing history entries: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.HistoryEntry)
	for rows.Next() {
		var e domain.HistoryEntry
		var date string
		if err := rows.Scan(&e.ID, &date, &e.Name, &e.Kg, &e.Rate, &e.Total); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		out[date] = append(out[date], e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history entries: %w", err)
	}
	return out, nil
}

func scanHistoryRecord(row rowScanner) (*domain.HistoryRecord, error) {
	var rec domain.HistoryRecord
	var completedAt, updatedAt string
	err := row.Scan(&rec.Date, &rec.TotalWorkers, &rec.TotalKg, &rec.TotalAmount, &completedAt, &updatedAt, &rec.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning history record: %w", err)
	}
	if rec.CompletedAt, err = parseTime(completedAt, "completed_at"); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &rec, nil
}
