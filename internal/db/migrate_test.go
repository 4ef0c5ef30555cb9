package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func userVersion(t *testing.T, db *sql.DB) int {
	t.Helper()
	var v int
	require.NoError(t, db.QueryRow(`PRAGMA user_version`).Scan(&v))
	return v
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
	assert.Equal(t, SchemaVersion(), userVersion(t, db))
}

func TestMigrate_ReplaysFromOlderVersion(t *testing.T) {
	db := openTestDB(t)

	// Pretend the history version stamp was never recorded. The ALTER TABLE
	// re-runs and its duplicate column error is tolerated.
	_, err := db.Exec(`PRAGMA user_version = 3`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	assert.Equal(t, SchemaVersion(), userVersion(t, db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"session_entries", "history_records", "history_entries", "drafts"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_session_entries_date",
		"idx_session_entries_created",
		"idx_history_entries_date",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestMigrate_HistoryVersionColumn(t *testing.T) {
	db := openTestDB(t)

	rows, err := db.Query(`PRAGMA table_info(history_records)`)
	require.NoError(t, err)
	defer rows.Close()

	found := false
	for rows.Next() {
		var cid int
		var name, typ string
		var notNull, pk int
		var dflt sql.NullString
		require.NoError(t, rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk))
		if name == "version" {
			found = true
		}
	}
	assert.True(t, found, "history_records should have a version column")
}

func TestMigrate_SessionRateCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO session_entries (name, kg, rate, total, work_date, created_at)
		VALUES ('Asha', 10, 0, 0, '05-01-2024', '2024-01-05T08:00:00Z')`)
	assert.Error(t, err, "zero rate should be rejected by CHECK constraint")

	_, err = db.Exec(`INSERT INTO session_entries (name, kg, rate, total, work_date, created_at)
		VALUES ('Asha', 10, 50, 500, '05-01-2024', '2024-01-05T08:00:00Z')`)
	assert.NoError(t, err)
}

func TestMigrate_HistoryEntriesCascade(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO history_records (work_date, total_workers, total_kg, total_amount, completed_at, updated_at)
		VALUES ('05-01-2024', 1, 10, 500, '2024-01-05T18:00:00Z', '2024-01-05T18:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO history_entries (id, work_date, position, name, kg, rate, total)
		VALUES ('e1', '05-01-2024', 0, 'Asha', 10, 50, 500)`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM history_records WHERE work_date = '05-01-2024'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM history_entries`).Scan(&n))
	assert.Equal(t, 0, n, "entries should cascade with their record")
}
