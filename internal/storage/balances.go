package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/expense-console/internal/common"
	"github.com/Veraticus/expense-console/internal/model"
)

// SaveBalance persists the last fetched balance snapshot.
func (s *SQLiteStorage) SaveBalance(ctx context.Context, snap model.BalanceSnapshot) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSnapshot(snap); err != nil {
		return err
	}
	if snap.FetchedAt.IsZero() {
		snap.FetchedAt = time.Now()
	}

	r := snap.Scope.DateRange
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO balance_snapshots
			(id, start_date, end_date, filter_by, filter_value, income, outcome, net, fetched_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			filter_by = excluded.filter_by,
			filter_value = excluded.filter_value,
			income = excluded.income,
			outcome = excluded.outcome,
			net = excluded.net,
			fetched_at = excluded.fetched_at
	`, dayOrNull(r.Start), dayOrNull(r.End), snap.Scope.FilterBy, snap.Scope.FilterValue,
		snap.Income, snap.Outcome, snap.Net, snap.FetchedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save balance: %w", err)
	}
	return nil
}

// LoadBalance returns the persisted snapshot or common.ErrNotFound.
func (s *SQLiteStorage) LoadBalance(ctx context.Context) (model.BalanceSnapshot, error) {
	if err := validateContext(ctx); err != nil {
		return model.BalanceSnapshot{}, err
	}

	var (
		snap        model.BalanceSnapshot
		start, end  sql.NullString
		filterBy    sql.NullString
		filterValue sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT start_date, end_date, filter_by, filter_value, income, outcome, net, fetched_at
		FROM balance_snapshots
		WHERE id = 1
	`).Scan(&start, &end, &filterBy, &filterValue, &snap.Income, &snap.Outcome, &snap.Net, &snap.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.BalanceSnapshot{}, common.ErrNotFound
	}
	if err != nil {
		return model.BalanceSnapshot{}, fmt.Errorf("failed to load balance: %w", err)
	}

	snap.Scope.FilterBy = filterBy.String
	snap.Scope.FilterValue = filterValue.String
	if snap.Scope.DateRange.Start, err = parseDay(start); err != nil {
		return model.BalanceSnapshot{}, err
	}
	if snap.Scope.DateRange.End, err = parseDay(end); err != nil {
		return model.BalanceSnapshot{}, err
	}
	return snap, nil
}

func dayOrNull(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(model.DateLayout)
}

func parseDay(s sql.NullString) (time.Time, error) {
	if !s.Valid || s.String == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(model.DateLayout, s.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse stored date %q: %w", s.String, err)
	}
	return t, nil
}
