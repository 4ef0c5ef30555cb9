package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/cotton/internal/db"
	"github.com/alexanderramin/cotton/internal/domain"
)

const sessionColumns = `id, name, kg, rate, total, work_date, created_at`

// SQLiteSessionRepo implements SessionRepo using a SQLite database.
type SQLiteSessionRepo struct {
	db db.DBTX
}

// NewSQLiteSessionRepo creates a new SQLiteSessionRepo.
func NewSQLiteSessionRepo(db db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: db}
}

// Create inserts the entry and sets its store-assigned ID.
func (r *SQLiteSessionRepo) Create(ctx context.Context, e *domain.SessionEntry) error {
	query := `INSERT INTO session_entries (name, kg, rate, total, work_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		e.Name,
		e.Kg,
		e.Rate,
		e.Total,
		e.Date,
		formatTime(e.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("inserting session entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading session entry id: %w", err)
	}
	e.ID = id
	return nil
}

func (r *SQLiteSessionRepo) GetByID(ctx context.Context, id int64) (*domain.SessionEntry, error) {
	query := `SELECT ` + sessionColumns + ` FROM session_entries WHERE id = ?`
	e, err := scanSessionEntry(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session entry %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return e, nil
}

// List returns every open entry, most recent first.
func (r *SQLiteSessionRepo) List(ctx context.Context) ([]*domain.SessionEntry, error) {
	query := `SELECT ` + sessionColumns + ` FROM session_entries ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing session entries: %w", err)
	}
	defer rows.Close()
	return scanSessionEntries(rows)
}

// ListByDate returns the open entries for one work date, most recent first.
func (r *SQLiteSessionRepo) ListByDate(ctx context.Context, date string) ([]*domain.SessionEntry, error) {
	query := `SELECT ` + sessionColumns + ` FROM session_entries
		WHERE work_date = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("listing session entries by date: %w", err)
	}
	defer rows.Close()
	return scanSessionEntries(rows)
}

func (r *SQLiteSessionRepo) Update(ctx context.Context, e *domain.SessionEntry) error {
	query := `UPDATE session_entries SET name = ?, kg = ?, rate = ?, total = ?, work_date = ?, created_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		e.Name,
		e.Kg,
		e.Rate,
		e.Total,
		e.Date,
		formatTime(e.Timestamp),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating session entry: %w", err)
	}
	return expectOneRow(res, fmt.Sprintf("session entry %d", e.ID))
}

func (r *SQLiteSessionRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM session_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session entry: %w", err)
	}
	return expectOneRow(res, fmt.Sprintf("session entry %d", id))
}

// Clear removes every open entry and returns how many there were.
func (r *SQLiteSessionRepo) Clear(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM session_entries`)
	if err != nil {
		return 0, fmt.Errorf("clearing session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clearing session: reading affected rows: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSessionEntry(row rowScanner) (*domain.SessionEntry, error) {
	var e domain.SessionEntry
	var createdAt string
	if err := row.Scan(&e.ID, &e.Name, &e.Kg, &e.Rate, &e.Total, &e.Date, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning session entry: %w", err)
	}
	ts, err := parseTime(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	e.Timestamp = ts
	// Derived on read as well as on write.
	e.Total = domain.LineTotal(e.Kg, e.Rate)
	return &e, nil
}

func scanSessionEntries(rows *sql.Rows) ([]*domain.SessionEntry, error) {
	var entries []*domain.SessionEntry
	for rows.Next() {
		e, err := scanSessionEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating session entries: %w", err)
	}
	return entries, nil
}
