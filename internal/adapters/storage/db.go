package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// The UNIQUE(residencia_id, week_start) constraint carries the
	// one-entry-per-residencia-per-week invariant; every checklist upsert
	// targets that pair, never the row id.
	schema := `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS residencia (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		delivery_day TEXT NOT NULL,
		biweekly INTEGER NOT NULL DEFAULT 0,
		biweekly_offset INTEGER NOT NULL DEFAULT 0,
		prep_days TEXT NOT NULL DEFAULT '',
		patients INTEGER NOT NULL DEFAULT 0,
		floors INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS checklist_item (
		id TEXT PRIMARY KEY,
		residencia_id TEXT NOT NULL,
		week_start TEXT NOT NULL,
		changes_done INTEGER NOT NULL DEFAULT 0,
		reviewed INTEGER NOT NULL DEFAULT 0,
		packed INTEGER NOT NULL DEFAULT 0,
		prep_date TEXT,
		deliver_date TEXT,
		notes TEXT,
		updated_at TEXT NOT NULL,
		UNIQUE(residencia_id, week_start),
		FOREIGN KEY (residencia_id) REFERENCES residencia(id)
	);

	CREATE INDEX IF NOT EXISTS idx_checklist_week ON checklist_item(week_start);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
