package ofx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/expense-console/internal/common"
	"github.com/Veraticus/expense-console/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCreator struct {
	errs     map[string]error
	payloads []model.NewExpense
}

func (f *fakeCreator) Create(_ context.Context, resource model.Resource, payload any) (model.Entity, error) {
	if resource != model.Expenses {
		return model.Entity{}, errors.New("unexpected resource")
	}
	e := payload.(model.NewExpense)
	if err := f.errs[e.Description]; err != nil {
		return model.Entity{}, err
	}
	f.payloads = append(f.payloads, e)
	return model.Entity{ID: "id-" + e.Description}, nil
}

type fakeLedger struct {
	seen map[string]string
}

func (l *fakeLedger) WasImported(_ context.Context, fitID string) (bool, error) {
	_, ok := l.seen[fitID]
	return ok, nil
}

func (l *fakeLedger) RecordImport(_ context.Context, fitID, expenseID string) error {
	l.seen[fitID] = expenseID
	return nil
}

func entry(fitID, desc string, cents int64) Entry {
	return Entry{
		FitID:       fitID,
		Description: desc,
		Amount:      cents,
		Type:        model.Outcome,
		Date:        time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestImporterExpensePayload(t *testing.T) {
	im := NewImporter(&fakeCreator{}, nil, Defaults{CategoryID: "c1", PaymentTypeID: "p1", BankID: "b1", Personal: true})

	got := im.Expense(entry("F1", "Padaria", 1250))
	assert.Equal(t, model.NewExpense{
		Description:   "Padaria",
		CategoryID:    "c1",
		PaymentTypeID: "p1",
		BankID:        "b1",
		Date:          "2024-01-15",
		Type:          model.Outcome,
		Amount:        1250,
		Personal:      true,
	}, got)
}

func TestImportSkipsKnownAndCountsOutcomes(t *testing.T) {
	creator := &fakeCreator{errs: map[string]error{
		"Duplicate": &common.ConflictError{Resource: "Expense"},
		"Broken":    &common.RequestError{Method: "POST", Path: "expenses", Status: 500},
	}}
	ledger := &fakeLedger{seen: map[string]string{"F0": "old"}}
	im := NewImporter(creator, ledger, Defaults{CategoryID: "c1", PaymentTypeID: "p1"})

	entries := []Entry{
		entry("F0", "Already there", 100),
		entry("F1", "Padaria", 1250),
		entry("F2", "Duplicate", 900),
		entry("F3", "Broken", 700),
		entry("F4", "", 500),
	}

	var ticks []int
	res, err := im.Import(context.Background(), entries, func(done int) { ticks = append(ticks, done) })
	require.NoError(t, err)

	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Conflict)
	assert.Equal(t, 2, res.Failed)
	require.Len(t, res.Errors, 2)
	assert.ErrorIs(t, res.Errors[0], common.ErrRequest)
	assert.ErrorIs(t, res.Errors[1], common.ErrValidation)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ticks)

	assert.Equal(t, "id-Padaria", ledger.seen["F1"])
	assert.Contains(t, ledger.seen, "F2")
	assert.NotContains(t, ledger.seen, "F3")
	require.Len(t, creator.payloads, 1)
}

func TestImportRequiresBankForStatementPaymentType(t *testing.T) {
	creator := &fakeCreator{}
	im := NewImporter(creator, nil, Defaults{CategoryID: "c1", PaymentTypeID: "credit", RequiresBank: true})

	res, err := im.Import(context.Background(), []Entry{entry("F1", "Padaria", 1250)}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Empty(t, creator.payloads)
}

func TestImportStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	im := NewImporter(&fakeCreator{}, nil, Defaults{CategoryID: "c1", PaymentTypeID: "p1"})
	res, err := im.Import(ctx, []Entry{entry("F1", "Padaria", 1250)}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, res.Created)
}
