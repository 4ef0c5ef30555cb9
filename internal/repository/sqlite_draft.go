package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/cotton/internal/db"
	"github.com/alexanderramin/cotton/internal/domain"
)

// SQLiteDraftRepo stores in-progress field values under namespaced keys.
type SQLiteDraftRepo struct {
	db db.DBTX
}

// NewSQLiteDraftRepo creates a new SQLiteDraftRepo.
func NewSQLiteDraftRepo(db db.DBTX) *SQLiteDraftRepo {
	return &SQLiteDraftRepo{db: db}
}

func (r *SQLiteDraftRepo) Put(ctx context.Context, d *domain.Draft) error {
	query := `INSERT INTO drafts (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, d.Field.Key(), d.Value, formatTime(d.UpdatedAt)); err != nil {
		return fmt.Errorf("saving draft %s: %w", d.Field, err)
	}
	return nil
}

func (r *SQLiteDraftRepo) Get(ctx context.Context, field domain.DraftField) (*domain.Draft, error) {
	var value, updatedAt string
	err := r.db.QueryRowContext(ctx, `SELECT value, updated_at FROM drafts WHERE key = ?`, field.Key()).
		Scan(&value, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("draft %s: %w", field, ErrNotFound)
		}
		return nil, fmt.Errorf("loading draft %s: %w", field, err)
	}
	ts, err := parseTime(updatedAt, "updated_at")
	if err != nil {
		return nil, err
	}
	return &domain.Draft{Field: field, Value: value, UpdatedAt: ts}, nil
}

// List returns every draft in the cotton-tracker namespace, ordered by key.
func (r *SQLiteDraftRepo) List(ctx context.Context) ([]*domain.Draft, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, value, updated_at FROM drafts WHERE key LIKE ? ORDER BY key`,
		domain.DraftKeyPrefix+"%")
	if err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}
	defer rows.Close()

	var drafts []*domain.Draft
	for rows.Next() {
		var key, value, updatedAt string
		if err := rows.Scan(&key, &value, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning draft: %w", err)
		}
		ts, err := parseTime(updatedAt, "updated_at")
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, &domain.Draft{
			Field:     domain.DraftField(strings.TrimPrefix(key, domain.DraftKeyPrefix)),
			Value:     value,
			UpdatedAt: ts,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating drafts: %w", err)
	}
	return drafts, nil
}

// Delete removes the given fields. Missing fields are not an error.
func (r *SQLiteDraftRepo) Delete(ctx context.Context, fields ...domain.DraftField) error {
	for _, f := range fields {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE key = ?`, f.Key()); err != nil {
			return fmt.Errorf("deleting draft %s: %w", f, err)
		}
	}
	return nil
}
