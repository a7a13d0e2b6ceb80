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

// SaveSession stores the signed-in session, replacing any previous one.
func (s *SQLiteStorage) SaveSession(ctx context.Context, session model.Session) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSession(session); err != nil {
		return err
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, token, user_name, email, created_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			user_name = excluded.user_name,
			email = excluded.email,
			created_at = excluded.created_at
	`, session.Token, session.UserName, session.Email, session.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// LoadSession returns the stored session or common.ErrNotFound.
func (s *SQLiteStorage) LoadSession(ctx context.Context) (model.Session, error) {
	if err := validateContext(ctx); err != nil {
		return model.Session{}, err
	}

	var (
		session  model.Session
		userName sql.NullString
		email    sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT token, user_name, email, created_at
		FROM sessions
		WHERE id = 1
	`).Scan(&session.Token, &userName, &email, &session.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, common.ErrNotFound
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	session.UserName = userName.String
	session.Email = email.String
	return session, nil
}

// ClearSession signs out: the token and the cached balance are removed.
func (s *SQLiteStorage) ClearSession(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"sessions", "balance_snapshots"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sign-out: %w", err)
	}
	return nil
}
