package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			position INTEGER PRIMARY KEY,
			task TEXT NOT NULL,
			subtask TEXT NOT NULL DEFAULT '',
			start_date TEXT NOT NULL DEFAULT '',
			end_date TEXT NOT NULL DEFAULT '',
			assignee TEXT NOT NULL DEFAULT 'Unassigned',
			status TEXT NOT NULL DEFAULT 'Not Started',
			progress INTEGER NOT NULL DEFAULT 0,
			priority TEXT NOT NULL DEFAULT 'Medium',
			time_spent REAL NOT NULL DEFAULT 0,
			comments TEXT NOT NULL DEFAULT '',
			dependencies TEXT,
			budget REAL NOT NULL DEFAULT 0,
			cost REAL NOT NULL DEFAULT 0
		);`,
		// Distinguishes "never initialized" from "emptied by the user".
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
