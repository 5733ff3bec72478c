package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrate_UpgradesFirstReleaseSchema opens a database created before
// audit actors and enrollment end dates existed and checks that rows survive
// and the new columns get their defaults.
func TestMigrate_UpgradesFirstReleaseSchema(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)

	legacy := []string{
		`CREATE TABLE learning_paths (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			course_ids TEXT NOT NULL DEFAULT '[]',
			total_hours REAL NOT NULL DEFAULT 0,
			total_days INTEGER NOT NULL DEFAULT 0,
			start_at TEXT,
			end_at TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE enrollments (
			id TEXT PRIMARY KEY,
			learning_path_id TEXT NOT NULL REFERENCES learning_paths(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active','completed','withdrawn')),
			start_date TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE audit_log (
			id TEXT PRIMARY KEY,
			entity_type TEXT NOT NULL CHECK(entity_type IN ('topic','course','learning_path','enrollment')),
			entity_id TEXT NOT NULL,
			action TEXT NOT NULL,
			details TEXT NOT NULL DEFAULT '{}',
			created_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range legacy {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	now := "2025-01-01T00:00:00Z"
	_, err = db.Exec(`INSERT INTO learning_paths (id, title, created_at, updated_at) VALUES ('lp-1', 'Backend', ?, ?)`, now, now)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO enrollments (id, learning_path_id, user_id, start_date, created_at, updated_at)
		VALUES ('e-1', 'lp-1', 'u-1', '2025-01-06', ?, ?)`, now, now)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO audit_log (id, entity_type, entity_id, action, created_at)
		VALUES ('a-1', 'learning_path', 'lp-1', 'created', ?)`, now)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	var userID, startDate string
	var endDate sql.NullString
	err = db.QueryRow(`SELECT user_id, start_date, end_date FROM enrollments WHERE id = 'e-1'`).Scan(&userID, &startDate, &endDate)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, "2025-01-06", startDate)
	assert.False(t, endDate.Valid)

	var actor, action string
	err = db.QueryRow(`SELECT actor_id, action FROM audit_log WHERE id = 'a-1'`).Scan(&actor, &action)
	require.NoError(t, err)
	assert.Equal(t, "", actor)
	assert.Equal(t, "created", action)

	// Tables missing from the legacy file are created.
	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='topics'`).Scan(&name)
	require.NoError(t, err)

	var idx string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name='idx_enrollments_user'`).Scan(&idx)
	require.NoError(t, err)

	// Running again on the upgraded file is a no-op.
	require.NoError(t, Migrate(db))
}
