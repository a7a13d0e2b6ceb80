package controller

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/expense-console/internal/balance"
	"github.com/Veraticus/expense-console/internal/common"
	"github.com/Veraticus/expense-console/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryGateway serves collections from memory and records every call.
type memoryGateway struct {
	data      map[model.Resource][]model.Entity
	updateErr error
	deleteErr error
	createErr error
	listErr   func(params url.Values) error
	lists     []url.Values
	updates   []model.Patch
	deletes   []string
	creates   []any
	scopes    []model.Scope
	alls      map[model.Resource]int
	mu        sync.Mutex
}

func newMemoryGateway() *memoryGateway {
	return &memoryGateway{
		data: make(map[model.Resource][]model.Entity),
		alls: make(map[model.Resource]int),
	}
}

func (g *memoryGateway) seed(resource model.Resource, entities ...model.Entity) {
	g.data[resource] = append(g.data[resource], entities...)
}

func (g *memoryGateway) List(_ context.Context, resource model.Resource, params url.Values) (model.Page, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lists = append(g.lists, params)
	if g.listErr != nil {
		if err := g.listErr(params); err != nil {
			return model.Page{}, err
		}
	}

	all := g.data[resource]
	offset, _ := strconv.Atoi(params.Get("offset"))
	limit, _ := strconv.Atoi(params.Get("limit"))
	end := min(offset+limit, len(all))
	var page []model.Entity
	if offset < len(all) {
		page = append(page, all[offset:end]...)
	}
	return model.Page{Entities: page, TotalCount: len(all), TotalKnown: true}, nil
}

func (g *memoryGateway) All(_ context.Context, resource model.Resource) ([]model.Entity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.alls[resource]++
	return append([]model.Entity(nil), g.data[resource]...), nil
}

func (g *memoryGateway) Update(_ context.Context, _ model.Resource, _ string, patch model.Patch) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updates = append(g.updates, patch)
	return g.updateErr
}

func (g *memoryGateway) Delete(_ context.Context, resource model.Resource, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deletes = append(g.deletes, id)
	if g.deleteErr != nil {
		return g.deleteErr
	}
	kept := g.data[resource][:0]
	for _, e := range g.data[resource] {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	g.data[resource] = kept
	return nil
}

func (g *memoryGateway) Create(_ context.Context, resource model.Resource, payload any) (model.Entity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.creates = append(g.creates, payload)
	if g.createErr != nil {
		return model.Entity{}, g.createErr
	}
	e := model.Entity{ID: "new-" + strconv.Itoa(len(g.creates))}
	switch p := payload.(type) {
	case model.NewEntity:
		e.Name, e.Description = p.Name, p.Description
	case model.NewExpense:
		e.Description, e.Amount, e.Type = p.Description, p.Amount, p.Type
	}
	g.data[resource] = append([]model.Entity{e}, g.data[resource]...)
	return e, nil
}

func (g *memoryGateway) Balance(_ context.Context, scope model.Scope) (model.BalanceSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scopes = append(g.scopes, scope)
	return model.BalanceSnapshot{Income: 10000, Outcome: 2500, Net: 7500}, nil
}

func (g *memoryGateway) listCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.lists)
}

func (g *memoryGateway) lastList() url.Values {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lists[len(g.lists)-1]
}

func (g *memoryGateway) balanceCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.scopes)
}

func bankEntities(n int) []model.Entity {
	out := make([]model.Entity, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, model.Entity{ID: "b" + strconv.Itoa(i), Name: "Bank " + strconv.Itoa(i)})
	}
	return out
}

var fixedNow = func() time.Time { return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC) }

func mountBanks(t *testing.T, n int) (*Controller, *memoryGateway) {
	t.Helper()
	gw := newMemoryGateway()
	gw.seed(model.Banks, bankEntities(n)...)
	c := New(Config{Gateway: gw, Resource: model.Banks, PageSize: 5, Now: fixedNow})
	require.NoError(t, c.OnMount(context.Background()))
	return c, gw
}

func mountExpenses(t *testing.T) (*Controller, *memoryGateway) {
	t.Helper()
	gw := newMemoryGateway()
	gw.seed(model.Expenses,
		model.Entity{ID: "e1", Description: "Groceries", Amount: 12345, Type: model.Outcome},
		model.Entity{ID: "e2", Description: "Salary", Amount: 500000, Type: model.Income},
	)
	gw.seed(model.PaymentTypes,
		model.Entity{ID: "p1", Description: "Pix"},
		model.Entity{ID: "p2", Description: "Credit", HasStatement: true},
	)
	gw.seed(model.Banks, model.Entity{ID: "b2", Name: "Nubank"}, model.Entity{ID: "b1", Name: "Itaú"})
	gw.seed(model.Categories, model.Entity{ID: "c1", Description: "Food"})

	c := New(Config{
		Gateway:  gw,
		Balance:  balance.NewAggregator(gw, nil),
		Resource: model.Expenses,
		PageSize: 5,
		Now:      fixedNow,
	})
	require.NoError(t, c.OnMount(context.Background()))
	return c, gw
}

func findRow(t *testing.T, v View, id string) model.ResourceRow {
	t.Helper()
	for _, r := range v.Rows {
		if r.ID == id {
			return r
		}
	}
	t.Fatalf("row %s not rendered", id)
	return model.ResourceRow{}
}

func TestMountLoadsFirstPage(t *testing.T) {
	c, gw := mountBanks(t, 23)

	v := c.State()
	assert.Len(t, v.Rows, 5)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, v.PageIndex)
	assert.Equal(t, 1, v.CurrentPage)
	assert.Nil(t, v.Balance)
	assert.False(t, v.LoadFailed)
	assert.Equal(t, "0", gw.lastList().Get("offset"))
	assert.Equal(t, "5", gw.lastList().Get("limit"))
	assert.Zero(t, gw.balanceCount())
}

func TestMountExpensesLoadsBalanceAndLookups(t *testing.T) {
	c, gw := mountExpenses(t)

	v := c.State()
	require.NotNil(t, v.Balance)
	assert.Equal(t, int64(7500), v.Balance.Net)
	assert.Equal(t, 1, gw.balanceCount())
	for _, r := range []model.Resource{model.Categories, model.PaymentTypes, model.Banks, model.Stores} {
		assert.Equal(t, 1, gw.alls[r], "lookup of %s", r)
	}

	banks, err := c.Lookup(context.Background(), model.Banks)
	require.NoError(t, err)
	assert.Equal(t, "Itaú", banks[0].Name)
	assert.Equal(t, 1, gw.alls[model.Banks])
}

func TestPageChangeKeepsBalance(t *testing.T) {
	c, gw := mountExpenses(t)
	gw.seed(model.Expenses, model.Entity{ID: "e3"}, model.Entity{ID: "e4"}, model.Entity{ID: "e5"}, model.Entity{ID: "e6"})
	require.NoError(t, c.Refresh(context.Background()))
	balances := gw.balanceCount()
	require.Equal(t, []int{1, 2}, c.State().PageIndex)

	require.NoError(t, c.OnPageChange(context.Background(), 2))
	assert.Equal(t, 2, c.State().CurrentPage)
	assert.Equal(t, "5", gw.lastList().Get("offset"))

	require.NoError(t, c.OnSortColumn(context.Background(), "amount"))
	assert.Equal(t, balances, gw.balanceCount())
}

func TestPageOutsideIndexIsIgnored(t *testing.T) {
	c, gw := mountBanks(t, 7)
	calls := gw.listCount()

	require.NoError(t, c.OnPageChange(context.Background(), 0))
	require.NoError(t, c.OnPageChange(context.Background(), 3))
	require.NoError(t, c.OnPrevPage(context.Background()))
	assert.Equal(t, calls, gw.listCount())

	require.NoError(t, c.OnNextPage(context.Background()))
	assert.Equal(t, 2, c.State().CurrentPage)
	require.NoError(t, c.OnNextPage(context.Background()))
	assert.Equal(t, calls+1, gw.listCount())
}

func TestSortColumnResetsPage(t *testing.T) {
	c, gw := mountBanks(t, 12)
	require.NoError(t, c.OnPageChange(context.Background(), 3))

	require.NoError(t, c.OnSortColumn(context.Background(), "name"))
	params := gw.lastList()
	assert.Equal(t, "name", params.Get("orderBy"))
	assert.Equal(t, "asc", params.Get("orderType"))
	assert.Equal(t, "0", params.Get("offset"))

	require.NoError(t, c.OnSortColumn(context.Background(), "name"))
	assert.Equal(t, "desc", gw.lastList().Get("orderType"))

	require.NoError(t, c.OnSortColumn(context.Background(), "created_at"))
	require.NoError(t, c.OnSortColumn(context.Background(), "name"))
	assert.Equal(t, "desc", gw.lastList().Get("orderType"))

	v := c.State()
	assert.True(t, v.Sorted)
	assert.Equal(t, "name", v.Sort.By)
}

func TestFilterSubmitWithoutValueFetchesNothing(t *testing.T) {
	c, gw := mountExpenses(t)
	lists, balances := gw.listCount(), gw.balanceCount()

	err := c.OnFilterSubmit(context.Background(), "banks", "")
	var ve *common.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "filterValue", ve.Field)
	assert.Equal(t, "Bank is required", ve.Message)
	assert.Equal(t, lists, gw.listCount())
	assert.Equal(t, balances, gw.balanceCount())
}

func TestFilterSubmitRefreshesBalance(t *testing.T) {
	c, gw := mountExpenses(t)
	balances := gw.balanceCount()

	require.NoError(t, c.OnFilterSubmit(context.Background(), "banks", "b1"))
	params := gw.lastList()
	assert.Equal(t, "bank", params.Get("filterBy"))
	assert.Equal(t, "b1", params.Get("filterValue"))
	assert.Equal(t, balances+1, gw.balanceCount())
	assert.Equal(t, "b1", c.State().Filter.Value)

	// Same scope again: the list reloads, the balance does not.
	require.NoError(t, c.OnFilterSubmit(context.Background(), "banks", "b1"))
	assert.Equal(t, balances+1, gw.balanceCount())

	require.NoError(t, c.OnFilterSubmit(context.Background(), "", ""))
	assert.Empty(t, gw.lastList().Get("filterBy"))
	assert.Equal(t, balances+2, gw.balanceCount())
}

func TestFilterDimensionLoadsValues(t *testing.T) {
	c, _ := mountExpenses(t)
	form := c.FilterForm()

	require.NoError(t, c.OnFilterDimension(context.Background(), "banks"))
	assert.False(t, form.ValueDisabled())
	opts := form.Options()
	require.Len(t, opts, 2)
	assert.Equal(t, "Itaú", opts[0].Label)

	require.NoError(t, c.OnFilterValue("b1"))
	require.NoError(t, c.OnFilterFormSubmit(context.Background()))
	assert.Equal(t, "bank", c.State().Filter.By)

	// Switching dimension drops the chosen value.
	require.NoError(t, c.OnFilterDimension(context.Background(), "stores"))
	_, value, _ := form.Selected()
	assert.Empty(t, value)
	assert.ErrorIs(t, c.OnFilterFormSubmit(context.Background()), common.ErrValidation)
}

func TestDateRangeSubmit(t *testing.T) {
	c, gw := mountExpenses(t)
	balances := gw.balanceCount()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	require.NoError(t, c.OnDateRangeSubmit(context.Background(), start, end))
	assert.Equal(t, "2024-01-01", gw.lastList().Get("startDate"))
	assert.Equal(t, "2024-01-31", gw.lastList().Get("endDate"))
	assert.Equal(t, balances+1, gw.balanceCount())
	assert.True(t, c.State().DateRange.Equal(model.DateRange{Start: start, End: end}))

	err := c.OnDateRangeSubmit(context.Background(), end, start)
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, balances+1, gw.balanceCount())
}

func TestCommitEditSuccess(t *testing.T) {
	c, gw := mountBanks(t, 3)

	require.NoError(t, c.OnEnterEdit("b1"))
	require.NoError(t, c.OnCommitEdit(context.Background(), "b1", "Banco Inter"))

	row := findRow(t, c.State(), "b1")
	assert.Equal(t, "Banco Inter", row.Label)
	assert.True(t, row.Locked)
	require.Len(t, gw.updates, 1)
	assert.Equal(t, "Banco Inter", *gw.updates[0].Name)

	notices := c.State().Notices
	require.Len(t, notices, 1)
	assert.Equal(t, Notice{Time: fixedNow(), Kind: NoticeSuccess, Title: "Update Bank", Description: "Bank updated successfully"}, notices[0])
}

func TestCommitEditConflictRollsBack(t *testing.T) {
	c, gw := mountBanks(t, 3)
	gw.updateErr = &common.ConflictError{Resource: "Bank"}

	var got []Notice
	c.notifier = NotifierFunc(func(n Notice) { got = append(got, n) })

	require.NoError(t, c.OnEnterEdit("b1"))
	err := c.OnCommitEdit(context.Background(), "b1", "Bank 2")
	assert.Equal(t, ConflictFailure, Classify(err))

	row := findRow(t, c.State(), "b1")
	assert.Equal(t, "Bank 1", row.Input)
	assert.Equal(t, model.EditPhaseEdit, row.EditPhase)

	require.Len(t, got, 1)
	assert.Equal(t, NoticeError, got[0].Kind)
	assert.Equal(t, "Update bank error", got[0].Title)
	assert.Equal(t, "This bank is already registered", got[0].Description)
}

func TestCommitEditGenericFailure(t *testing.T) {
	c, gw := mountBanks(t, 3)
	gw.updateErr = &common.RequestError{Method: "PATCH", Path: "banks/b1", Status: 500}

	require.NoError(t, c.OnEnterEdit("b1"))
	err := c.OnCommitEdit(context.Background(), "b1", "Other")
	assert.Equal(t, RequestFailure, Classify(err))
	assert.Equal(t, "Error on updating bank", c.State().Notices[0].Description)
	assert.Equal(t, "Bank 1", findRow(t, c.State(), "b1").Input)
}

func TestCommitUnchangedMakesNoRequest(t *testing.T) {
	c, gw := mountBanks(t, 3)

	require.NoError(t, c.OnEnterEdit("b2"))
	require.NoError(t, c.OnCommitEdit(context.Background(), "b2", "Bank 2"))
	assert.Empty(t, gw.updates)
	assert.Empty(t, c.State().Notices)
	assert.False(t, findRow(t, c.State(), "b2").Editing())
}

func TestCommitOnRestRowIsRejected(t *testing.T) {
	c, gw := mountBanks(t, 3)

	err := c.OnCommitEdit(context.Background(), "b1", "x")
	assert.Error(t, err)
	assert.Empty(t, gw.updates)
}

func TestSingleEditorAcrossHandlers(t *testing.T) {
	c, _ := mountBanks(t, 3)

	require.NoError(t, c.OnEnterEdit("b1"))
	require.NoError(t, c.OnInput("b1", "half typed"))
	require.NoError(t, c.OnEnterEdit("b2"))

	v := c.State()
	y := findRow(t, v, "b1")
	assert.Equal(t, model.EditPhaseEdit, y.EditPhase)
	assert.True(t, y.Locked)
	x := findRow(t, v, "b2")
	assert.Equal(t, model.EditPhaseSave, x.EditPhase)
	assert.False(t, x.Locked)
}

func TestBlurRevertsEmptyInput(t *testing.T) {
	c, gw := mountBanks(t, 3)

	require.NoError(t, c.OnEnterEdit("b1"))
	require.NoError(t, c.OnInput("b1", ""))
	require.NoError(t, c.OnBlur("b1"))

	assert.Equal(t, "Bank 1", findRow(t, c.State(), "b1").Input)
	assert.Empty(t, gw.updates)
}

func TestTwoStepDelete(t *testing.T) {
	c, gw := mountBanks(t, 3)
	lists := gw.listCount()

	require.NoError(t, c.OnRequestDelete("b2"))
	assert.Empty(t, gw.deletes)
	assert.True(t, findRow(t, c.State(), "b2").ConfirmingDelete())

	require.NoError(t, c.OnConfirmDelete(context.Background(), "b2"))
	assert.Equal(t, []string{"b2"}, gw.deletes)
	assert.Equal(t, lists+1, gw.listCount())

	v := c.State()
	assert.Len(t, v.Rows, 2)
	assert.Equal(t, "Delete Bank", v.Notices[0].Title)
	assert.Equal(t, "Bank deleted successfully", v.Notices[0].Description)
}

func TestConfirmWithoutArmingIsRejected(t *testing.T) {
	c, gw := mountBanks(t, 3)

	assert.Error(t, c.OnConfirmDelete(context.Background(), "b1"))
	assert.Empty(t, gw.deletes)
}

func TestDeleteFailureDisarms(t *testing.T) {
	c, gw := mountBanks(t, 3)
	gw.deleteErr = errors.New("connection reset")
	lists := gw.listCount()

	require.NoError(t, c.OnRequestDelete("b1"))
	assert.Error(t, c.OnConfirmDelete(context.Background(), "b1"))

	row := findRow(t, c.State(), "b1")
	assert.Equal(t, model.DeletePhaseDelete, row.DeletePhase)
	assert.Equal(t, lists, gw.listCount())
	assert.Equal(t, "Error on deleting bank", c.State().Notices[0].Description)
}

func TestDeletingLastRowOfLastPageStepsBack(t *testing.T) {
	c, _ := mountBanks(t, 6)
	require.NoError(t, c.OnPageChange(context.Background(), 2))
	require.Len(t, c.State().Rows, 1)

	require.NoError(t, c.OnRequestDelete("b6"))
	require.NoError(t, c.OnConfirmDelete(context.Background(), "b6"))

	v := c.State()
	assert.Equal(t, 1, v.CurrentPage)
	assert.Equal(t, []int{1}, v.PageIndex)
	assert.Len(t, v.Rows, 5)
}

func TestStepBackFailureKeepsDelete(t *testing.T) {
	c, gw := mountBanks(t, 6)
	require.NoError(t, c.OnPageChange(context.Background(), 2))
	gw.listErr = func(params url.Values) error {
		if params.Get("offset") == "0" {
			return errors.New("connection reset")
		}
		return nil
	}

	require.NoError(t, c.OnRequestDelete("b6"))
	require.NoError(t, c.OnConfirmDelete(context.Background(), "b6"))

	assert.Equal(t, []string{"b6"}, gw.deletes)
	gw.mu.Lock()
	last := gw.lists[len(gw.lists)-1]
	gw.mu.Unlock()
	assert.Equal(t, "0", last.Get("offset"))
}

func TestCreateEntity(t *testing.T) {
	c, gw := mountBanks(t, 7)
	require.NoError(t, c.OnPageChange(context.Background(), 2))

	_, err := c.OnCreate(context.Background(), model.NewEntity{})
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Empty(t, gw.creates)

	created, err := c.OnCreate(context.Background(), model.NewEntity{Name: "C6 Bank"})
	require.NoError(t, err)
	assert.Equal(t, "C6 Bank", created.Name)

	v := c.State()
	assert.Equal(t, 1, v.CurrentPage)
	assert.Equal(t, "C6 Bank", v.Rows[0].Label)
	assert.Equal(t, []int{1, 2}, v.PageIndex)
	assert.Equal(t, "Create bank", v.Notices[0].Title)
	assert.Equal(t, "Bank created successfully", v.Notices[0].Description)
}

func TestCreateEntityConflict(t *testing.T) {
	c, gw := mountBanks(t, 1)
	gw.createErr = &common.ConflictError{Resource: "Bank"}

	_, err := c.OnCreate(context.Background(), model.NewEntity{Name: "Bank 1"})
	assert.ErrorIs(t, err, common.ErrConflict)
	assert.Equal(t, "Bank already exists", c.State().Notices[0].Description)
}

func TestCreateExpense(t *testing.T) {
	c, gw := mountExpenses(t)
	balances := gw.balanceCount()

	expense := model.NewExpense{
		Description:   "Dinner",
		CategoryID:    "c1",
		PaymentTypeID: "p2",
		Date:          "2024-03-09",
		Type:          model.Outcome,
		Amount:        8990,
	}

	_, err := c.OnCreate(context.Background(), expense)
	var ve *common.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "bank", ve.Field)
	assert.Empty(t, gw.creates)

	expense.BankID = "b1"
	_, err = c.OnCreate(context.Background(), expense)
	require.NoError(t, err)

	v := c.State()
	assert.Equal(t, "Dinner", v.Rows[0].Label)
	assert.Equal(t, "- R$ 89,90", v.Rows[0].FormattedAmount)
	assert.Equal(t, "Create expense", v.Notices[0].Title)
	assert.Equal(t, "Expense created successfully", v.Notices[0].Description)
	assert.Equal(t, balances+1, gw.balanceCount())

	_, err = c.OnCreate(context.Background(), model.NewEntity{Name: "wrong"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestCreateExpenseConflict(t *testing.T) {
	c, gw := mountExpenses(t)
	gw.createErr = &common.ConflictError{Resource: "Expense", Message: "This expense is already registered"}

	_, err := c.OnCreate(context.Background(), model.NewExpense{
		Description: "Dinner", CategoryID: "c1", PaymentTypeID: "p1", Date: "2024-03-09", Amount: 100,
	})
	assert.Equal(t, ConflictFailure, Classify(err))

	n := c.State().Notices[0]
	assert.Equal(t, "Create expense error", n.Title)
	assert.Equal(t, "This expense is already registered for this day", n.Description)
}

func TestExpenseEditRefreshesBalance(t *testing.T) {
	c, gw := mountExpenses(t)
	balances := gw.balanceCount()

	require.NoError(t, c.OnEnterEdit("e1"))
	require.NoError(t, c.OnCommitEdit(context.Background(), "e1", "Supermarket"))
	assert.Equal(t, balances+1, gw.balanceCount())
	assert.Equal(t, "Supermarket", *gw.updates[0].Description)
}

func TestNoticesAreBounded(t *testing.T) {
	c, _ := mountBanks(t, 1)
	for i := 0; i < maxNotices+3; i++ {
		c.notify(Notice{Title: strconv.Itoa(i)})
	}
	notices := c.State().Notices
	require.Len(t, notices, maxNotices)
	assert.Equal(t, strconv.Itoa(maxNotices+2), notices[maxNotices-1].Title)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, NoFailure, Classify(nil))
	assert.Equal(t, ValidationFailure, Classify(common.NewValidationError("x", "y")))
	assert.Equal(t, ConflictFailure, Classify(&common.ConflictError{}))
	assert.Equal(t, RequestFailure, Classify(&common.RequestError{Status: 500}))
	assert.Equal(t, RequestFailure, Classify(errors.New("network down")))
	assert.Equal(t, "conflict", ConflictFailure.String())
}
