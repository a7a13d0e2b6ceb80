package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// WasImported reports whether the statement entry fitID was already posted.
func (s *SQLiteStorage) WasImported(ctx context.Context, fitID string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(fitID, "fitID"); err != nil {
		return false, err
	}

	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM imported_entries WHERE fit_id = ?`, fitID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check import ledger: %w", err)
	}
	return true, nil
}

// RecordImport marks fitID as posted under expenseID.
func (s *SQLiteStorage) RecordImport(ctx context.Context, fitID, expenseID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(fitID, "fitID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO imported_entries (fit_id, expense_id, imported_at)
		VALUES (?, ?, ?)
		ON CONFLICT(fit_id) DO UPDATE SET
			expense_id = excluded.expense_id,
			imported_at = excluded.imported_at
	`, fitID, expenseID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record import: %w", err)
	}
	return nil
}
