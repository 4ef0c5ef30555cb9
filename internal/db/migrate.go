package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// migration is one structural upgrade. Statements must be safe to re-run:
// CREATE ... IF NOT EXISTS, and ALTER TABLE ADD COLUMN is tolerated when the
// column already exists.
type migration struct {
	version int
	name    string
	stmts   []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "session entries",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS session_entries (
				id         INTEGER PRIMARY KEY AUTOINCREMENT,
				name       TEXT NOT NULL,
				kg         REAL NOT NULL CHECK(kg >= 0),
				rate       REAL NOT NULL CHECK(rate > 0 AND rate <= 1000),
				total      REAL NOT NULL,
				work_date  TEXT NOT NULL,
				created_at TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_session_entries_date ON session_entries(work_date)`,
			`CREATE INDEX IF NOT EXISTS idx_session_entries_created ON session_entries(created_at)`,
		},
	},
	{
		version: 2,
		name:    "history",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS history_records (
				work_date     TEXT PRIMARY KEY,
				total_workers INTEGER NOT NULL DEFAULT 0,
				total_kg      REAL NOT NULL DEFAULT 0,
				total_amount  REAL NOT NULL DEFAULT 0,
				completed_at  TEXT NOT NULL,
				updated_at    TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS history_entries (
				id        TEXT PRIMARY KEY,
				work_date TEXT NOT NULL REFERENCES history_records(work_date) ON DELETE CASCADE,
				position  INTEGER NOT NULL,
				name      TEXT NOT NULL,
				kg        REAL NOT NULL,
				rate      REAL NOT NULL,
				total     REAL NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_history_entries_date ON history_entries(work_date, position)`,
		},
	},
	{
		version: 3,
		name:    "drafts",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS drafts (
				key        TEXT PRIMARY KEY,
				value      TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
		},
	},
	{
		version: 4,
		name:    "history version stamp",
		stmts: []string{
			`ALTER TABLE history_records ADD COLUMN version INTEGER NOT NULL DEFAULT 1`,
		},
	},
}

// SchemaVersion is the version a fully migrated database reports.
func SchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// Migrate applies every migration newer than the database's user_version.
// Each step runs in its own transaction together with the version bump.
func Migrate(db *sql.DB) error {
	ctx := context.Background()

	current, err := currentVersion(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
	}
	return nil
}

func currentVersion(ctx context.Context, db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

func applyMigration(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting migration transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for i, stmt := range m.stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			// Tolerate "duplicate column name" from ALTER TABLE so a partially
			// upgraded database can be re-migrated.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("statement %d: %w", i, err)
		}
	}

	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, m.version)); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}
	committed = true
	return nil
}
