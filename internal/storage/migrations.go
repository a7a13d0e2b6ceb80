package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Veraticus/expense-console/internal/common"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Session table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE TABLE IF NOT EXISTS sessions (
				id INTEGER PRIMARY KEY CHECK (id = 1),
				token TEXT NOT NULL,
				user_name TEXT,
				email TEXT,
				created_at DATETIME NOT NULL
			)`)
			return err
		},
	},
	{
		Version:     2,
		Description: "Balance snapshot",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE TABLE IF NOT EXISTS balance_snapshots (
				id INTEGER PRIMARY KEY CHECK (id = 1),
				start_date TEXT,
				end_date TEXT,
				filter_by TEXT,
				filter_value TEXT,
				income INTEGER NOT NULL DEFAULT 0,
				outcome INTEGER NOT NULL DEFAULT 0,
				net INTEGER NOT NULL DEFAULT 0,
				fetched_at DATETIME NOT NULL
			)`)
			return err
		},
	},
	{
		Version:     3,
		Description: "Imported statement entries",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS imported_entries (
					fit_id TEXT PRIMARY KEY,
					expense_id TEXT,
					imported_at DATETIME NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_imported_entries_expense ON imported_entries(expense_id)`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		common.LogDebug("applied migration", common.Fields{
			"version":     migration.Version,
			"description": migration.Description,
		})
	}

	var finalVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion); err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
