package ofx

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/expense-console/internal/common"
	"github.com/Veraticus/expense-console/internal/model"
)

// Creator posts a new record to the API.
type Creator interface {
	Create(ctx context.Context, resource model.Resource, payload any) (model.Entity, error)
}

// Ledger remembers which statement entries were already posted.
type Ledger interface {
	WasImported(ctx context.Context, fitID string) (bool, error)
	RecordImport(ctx context.Context, fitID, expenseID string) error
}

// Defaults are applied to every imported expense.
type Defaults struct {
	CategoryID    string
	PaymentTypeID string
	BankID        string
	StoreID       string
	Personal      bool
	Split         bool
	RequiresBank  bool
}

// Result summarizes one import run.
type Result struct {
	Errors   []error
	Created  int
	Skipped  int
	Conflict int
	Failed   int
}

// Importer posts statement entries as expenses, one request at a time.
type Importer struct {
	creator  Creator
	ledger   Ledger
	defaults Defaults
}

// NewImporter creates an importer. ledger may be nil, in which case nothing
// is deduplicated locally and the server's duplicate check is the only guard.
func NewImporter(creator Creator, ledger Ledger, defaults Defaults) *Importer {
	return &Importer{creator: creator, ledger: ledger, defaults: defaults}
}

// Expense builds the create payload for entry.
func (im *Importer) Expense(entry Entry) model.NewExpense {
	return model.NewExpense{
		Description:   entry.Description,
		CategoryID:    im.defaults.CategoryID,
		PaymentTypeID: im.defaults.PaymentTypeID,
		BankID:        im.defaults.BankID,
		StoreID:       im.defaults.StoreID,
		Date:          entry.Date.UTC().Format(model.DateLayout),
		Type:          entry.Type,
		Amount:        entry.Amount,
		Personal:      im.defaults.Personal,
		Split:         im.defaults.Split,
	}
}

// Import posts every entry. A failed entry does not stop the run; progress
// is called after each entry with the number processed so far. The run only
// aborts early when ctx is done.
func (im *Importer) Import(ctx context.Context, entries []Entry, progress func(done int)) (Result, error) {
	var res Result

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		im.importOne(ctx, entry, &res)

		if progress != nil {
			progress(i + 1)
		}
	}

	common.LogInfo("statement import finished", common.Fields{
		"created":  res.Created,
		"skipped":  res.Skipped,
		"conflict": res.Conflict,
		"failed":   res.Failed,
	})
	return res, nil
}

func (im *Importer) importOne(ctx context.Context, entry Entry, res *Result) {
	fail := func(err error) {
		res.Failed++
		res.Errors = append(res.Errors, fmt.Errorf("entry %s: %w", entry.FitID, err))
	}

	if im.ledger != nil && entry.FitID != "" {
		seen, err := im.ledger.WasImported(ctx, entry.FitID)
		if err != nil {
			fail(err)
			return
		}
		if seen {
			res.Skipped++
			return
		}
	}

	payload := im.Expense(entry)
	if err := payload.Validate(im.defaults.RequiresBank); err != nil {
		fail(err)
		return
	}

	created, err := im.creator.Create(ctx, model.Expenses, payload)
	if errors.Is(err, common.ErrConflict) {
		res.Conflict++
		im.record(ctx, entry.FitID, "")
		return
	}
	if err != nil {
		fail(err)
		return
	}

	res.Created++
	im.record(ctx, entry.FitID, created.ID)
}

func (im *Importer) record(ctx context.Context, fitID, expenseID string) {
	if im.ledger == nil || fitID == "" {
		return
	}
	if err := im.ledger.RecordImport(ctx, fitID, expenseID); err != nil {
		common.LogError(err, "failed to record imported entry", common.Fields{"fit_id": fitID})
	}
}
