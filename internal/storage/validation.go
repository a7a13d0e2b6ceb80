// Package storage provides the local persistence layer of the expense console.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/expense-console/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrInvalidSession  = errors.New("invalid session")
	ErrInvalidSnapshot = errors.New("invalid balance snapshot")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateSession(session model.Session) error {
	if strings.TrimSpace(session.Token) == "" {
		return fmt.Errorf("%w: missing token", ErrInvalidSession)
	}
	return nil
}

func validateSnapshot(snap model.BalanceSnapshot) error {
	r := snap.Scope.DateRange
	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		return fmt.Errorf("%w: end date before start date", ErrInvalidSnapshot)
	}
	return nil
}
