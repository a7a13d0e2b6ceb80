package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/expense-console/internal/common"
	"github.com/Veraticus/expense-console/internal/model"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct {
	err     error
	session model.Session
	saved   []model.Session
}

func (f *fakeSessions) LoadSession(context.Context) (model.Session, error) {
	return f.session, f.err
}

func (f *fakeSessions) SaveSession(_ context.Context, s model.Session) error {
	f.saved = append(f.saved, s)
	return f.err
}

type fakeAuth struct {
	err     error
	session model.Session
	email   string
}

func (f *fakeAuth) SignIn(_ context.Context, email, _ string) (model.Session, error) {
	f.email = email
	return f.session, f.err
}

func TestResolveToken(t *testing.T) {
	ctx := context.Background()

	token, err := resolveToken(ctx, "configured", &fakeSessions{err: errors.New("unused")})
	require.NoError(t, err)
	assert.Equal(t, "configured", token)

	token, err = resolveToken(ctx, "", &fakeSessions{session: model.Session{Token: "stored"}})
	require.NoError(t, err)
	assert.Equal(t, "stored", token)

	_, err = resolveToken(ctx, "", &fakeSessions{err: common.ErrNotFound})
	var ue *common.UserError
	require.ErrorAs(t, err, &ue)
	assert.Contains(t, ue.UserMessage, "expenses login")
}

func TestSignInStoresSession(t *testing.T) {
	auth := &fakeAuth{session: model.Session{Token: "tok", UserName: "Ana"}}
	store := &fakeSessions{}

	session, err := signIn(context.Background(), auth, store, "  ana@example.com ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", auth.email)
	assert.Equal(t, "ana@example.com", session.Email)
	require.Len(t, store.saved, 1)
	assert.Equal(t, "tok", store.saved[0].Token)

	auth.err = common.NewValidationError("password", "Password is required")
	_, err = signIn(context.Background(), auth, store, "ana@example.com", "")
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Len(t, store.saved, 1)
}

func TestResourceArg(t *testing.T) {
	r, err := resourceArg(nil)
	require.NoError(t, err)
	assert.Equal(t, model.Expenses, r)

	r, err = resourceArg([]string{"Banks"})
	require.NoError(t, err)
	assert.Equal(t, model.Banks, r)

	_, err = resourceArg([]string{"invoices"})
	var ue *common.UserError
	assert.ErrorAs(t, err, &ue)
}

func TestParseWindow(t *testing.T) {
	r, err := parseWindow("2024-03-01", "2024-03-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), r.End)

	_, err = parseWindow("2024-03-01", "")
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = parseWindow("2024-03-31", "2024-03-01")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestScopeFromFlags(t *testing.T) {
	newCmd := func(args ...string) *cobra.Command {
		cmd := &cobra.Command{Use: "test"}
		scopeFlags(cmd)
		require.NoError(t, cmd.Flags().Parse(args))
		return cmd
	}

	scope, err := scopeFromFlags(newCmd())
	require.NoError(t, err)
	assert.Equal(t, model.Scope{}, scope)

	scope, err = scopeFromFlags(newCmd("--filter", "banks", "--value", "b1", "--from", "2024-03-01", "--to", "2024-03-31"))
	require.NoError(t, err)
	assert.Equal(t, "bank", scope.FilterBy)
	assert.Equal(t, "b1", scope.FilterValue)
	assert.False(t, scope.DateRange.IsZero())

	_, err = scopeFromFlags(newCmd("--filter", "banks"))
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = scopeFromFlags(newCmd("--filter", "planets", "--value", "x"))
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestListQuery(t *testing.T) {
	cmd := listCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--page", "3", "--sort", "name", "--desc", "--limit", "5"}))

	q, err := listQuery(cmd)
	require.NoError(t, err)
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 5, q.PageSize)
	assert.Equal(t, "name", q.SortBy)
	assert.Equal(t, model.Descending, q.SortDirection)

	cmd = listCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--limit", "0"}))
	_, err = listQuery(cmd)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestPrintPage(t *testing.T) {
	var buf bytes.Buffer
	q := model.NewQueryState(2)
	printPage(&buf, model.Banks, q, model.Page{
		Entities:   []model.Entity{{ID: "b1", Name: "Nubank"}, {ID: "b2", Name: "Itaú"}},
		TotalCount: 3,
		TotalKnown: true,
	})

	out := buf.String()
	assert.Contains(t, out, "Nubank")
	assert.Contains(t, out, "Itaú")
	assert.Contains(t, out, "Page 1 of 2 (3 records)")

	buf.Reset()
	printPage(&buf, model.Stores, q, model.Page{TotalKnown: true})
	assert.Equal(t, "No stores found.\n", buf.String())
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.ofx", "b.ofx", "c.qfx"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("OFX"), 0600))
	}

	files, err := collectFiles([]string{filepath.Join(dir, "*.ofx"), filepath.Join(dir, "a.ofx"), filepath.Join(dir, "c.qfx")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.ofx"),
		filepath.Join(dir, "b.ofx"),
		filepath.Join(dir, "c.qfx"),
	}, files)

	_, err = collectFiles([]string{filepath.Join(dir, "*.csv")})
	assert.Error(t, err)
}

type fakeLister map[model.Resource][]model.Entity

func (f fakeLister) All(_ context.Context, r model.Resource) ([]model.Entity, error) {
	return f[r], nil
}

func TestResolveDefaults(t *testing.T) {
	lister := fakeLister{
		model.Categories:   {{ID: "c1", Description: "Groceries"}},
		model.PaymentTypes: {{ID: "p1", Description: "Credit", HasStatement: true}},
		model.Banks:        {{ID: "b1", Name: "Itaú"}},
	}

	cmd := importOFXCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--category", "groceries", "--payment-type", "p1", "--bank", "ITAÚ"}))

	d, err := resolveDefaults(context.Background(), lister, cmd)
	require.NoError(t, err)
	assert.Equal(t, "c1", d.CategoryID)
	assert.Equal(t, "p1", d.PaymentTypeID)
	assert.Equal(t, "b1", d.BankID)
	assert.Empty(t, d.StoreID)
	assert.True(t, d.RequiresBank)

	cmd = importOFXCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--category", "rent", "--payment-type", "p1"}))
	_, err = resolveDefaults(context.Background(), lister, cmd)
	assert.ErrorIs(t, err, common.ErrValidation)
}
