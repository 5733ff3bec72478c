package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies the schema. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Id lists and relation maps are stored as JSON text and queried with json_each.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS topics (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		time_allocated REAL NOT NULL CHECK(time_allocated > 0),
		time_unit TEXT NOT NULL CHECK(time_unit IN ('hours','days')),
		prerequisites TEXT NOT NULL DEFAULT '[]',
		corequisites TEXT NOT NULL DEFAULT '[]',
		start_date TEXT,
		end_date TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS courses (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		topic_ids TEXT NOT NULL DEFAULT '[]',
		topic_prerequisites TEXT NOT NULL DEFAULT '{}',
		topic_corequisites TEXT NOT NULL DEFAULT '{}',
		total_hours REAL NOT NULL DEFAULT 0,
		total_days INTEGER NOT NULL DEFAULT 0,
		start_at TEXT,
		end_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS learning_paths (
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

	`CREATE TABLE IF NOT EXISTS enrollments (
		id TEXT PRIMARY KEY,
		learning_path_id TEXT NOT NULL REFERENCES learning_paths(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active','completed','withdrawn')),
		start_date TEXT,
		end_date TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS audit_log (
		id TEXT PRIMARY KEY,
		entity_type TEXT NOT NULL CHECK(entity_type IN ('topic','course','learning_path','enrollment')),
		entity_id TEXT NOT NULL,
		action TEXT NOT NULL,
		actor_id TEXT NOT NULL DEFAULT '',
		details TEXT NOT NULL DEFAULT '{}',
		created_at TEXT NOT NULL
	)`,

	// Columns added after the first release. Fresh databases already have
	// them and the duplicate column error is skipped.
	`ALTER TABLE audit_log ADD COLUMN actor_id TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE enrollments ADD COLUMN end_date TEXT`,

	`CREATE INDEX IF NOT EXISTS idx_enrollments_path ON enrollments(learning_path_id)`,
	`CREATE INDEX IF NOT EXISTS idx_enrollments_user ON enrollments(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_entity ON audit_log(entity_type, entity_id)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_created ON audit_log(created_at)`,
}
