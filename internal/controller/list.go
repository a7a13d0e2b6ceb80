package controller

import (
	"context"
	"errors"
	"time"

	"github.com/Veraticus/expense-console/internal/common"
	"github.com/Veraticus/expense-console/internal/model"
	"github.com/Veraticus/expense-console/internal/query"
)

// load issues q. A newer load winning the race is not an error.
func (c *Controller) load(ctx context.Context, q model.QueryState) error {
	return ignoreSuperseded(c.sync.Load(ctx, q))
}

// loadScoped issues q and brings the balance in line with its scope. The
// balance is only refetched when the scope actually changed.
func (c *Controller) loadScoped(ctx context.Context, q model.QueryState) error {
	err := c.load(ctx, q)
	c.syncBalance(ctx, q.Scope())
	return err
}

func (c *Controller) syncBalance(ctx context.Context, scope model.Scope) {
	if c.balance == nil {
		return
	}
	if _, err := c.balance.Sync(ctx, scope); err != nil && !errors.Is(err, common.ErrSuperseded) {
		common.LogDebug("balance refresh failed", common.Fields{"error": err.Error()})
	}
}

// OnPageChange moves to page. Pages outside the known page index are
// ignored; the balance is never touched.
func (c *Controller) OnPageChange(ctx context.Context, page int) error {
	if !c.sync.Pager().Valid(page) {
		return nil
	}
	return c.load(ctx, c.sync.Query().WithPage(page))
}

// OnPrevPage moves one page back if the control is enabled.
func (c *Controller) OnPrevPage(ctx context.Context) error {
	page, ok := c.sync.Pager().Prev()
	if !ok {
		return nil
	}
	return c.OnPageChange(ctx, page)
}

// OnNextPage moves one page forward if the control is enabled.
func (c *Controller) OnNextPage(ctx context.Context) error {
	page, ok := c.sync.Pager().Next()
	if !ok {
		return nil
	}
	return c.OnPageChange(ctx, page)
}

// OnSortColumn toggles the sort on column and reloads from page 1.
func (c *Controller) OnSortColumn(ctx context.Context, column string) error {
	if column == "" {
		return common.NewValidationError("orderBy", "Sort column is required")
	}
	order := c.sorter.Toggle(column)
	return c.load(ctx, c.sync.Query().WithSort(order.By, order.Type))
}

// OnFilterDimension selects a filter dimension and looks up its values. The
// value selector stays disabled until the lookup resolves.
func (c *Controller) OnFilterDimension(ctx context.Context, dimensionID string) error {
	d, err := c.filter.SelectDimension(dimensionID)
	if err != nil || dimensionID == "" {
		return err
	}

	entities, err := c.Lookup(ctx, d.Lookup)
	if err != nil {
		c.filter.LookupFailed(d.ID)
		return err
	}
	c.filter.ValuesLoaded(d.ID, query.OptionsFromEntities(entities))
	return nil
}

// OnFilterValue picks one of the loaded values.
func (c *Controller) OnFilterValue(id string) error {
	return c.filter.SelectValue(id)
}

// OnFilterSubmit applies a filter. An empty dimension clears the filter; a
// dimension without a value is a validation failure and nothing is fetched.
func (c *Controller) OnFilterSubmit(ctx context.Context, dimensionID, value string) error {
	f, err := buildFilter(dimensionID, value)
	if err != nil {
		return err
	}
	return c.loadScoped(ctx, c.sync.Query().WithFilter(f.By, f.Value))
}

// OnFilterFormSubmit applies whatever the filter form holds.
func (c *Controller) OnFilterFormSubmit(ctx context.Context) error {
	f, err := c.filter.Submit()
	if err != nil {
		return err
	}
	return c.loadScoped(ctx, c.sync.Query().WithFilter(f.By, f.Value))
}

func buildFilter(dimensionID, value string) (query.Filter, error) {
	if dimensionID == "" {
		return query.Filter{}, nil
	}
	d, ok := query.DimensionByID(dimensionID)
	if !ok {
		return query.Filter{}, common.NewValidationError("filterBy", "Unknown filter "+dimensionID)
	}
	if value == "" {
		return query.Filter{}, common.NewValidationError("filterValue", d.Label+" is required")
	}
	return query.Filter{By: d.Param, Value: value}, nil
}

// OnDateRangeSubmit applies a date window. Both bounds are required and
// the end may not precede the start.
func (c *Controller) OnDateRangeSubmit(ctx context.Context, start, end time.Time) error {
	r := model.DateRange{Start: start, End: end}
	if err := c.dates.Set(r); err != nil {
		return err
	}
	return c.loadScoped(ctx, c.sync.Query().WithDateRange(r))
}

// OnDateRangeFormSubmit applies whatever the date form holds.
func (c *Controller) OnDateRangeFormSubmit(ctx context.Context) error {
	r, err := c.dates.Submit()
	if err != nil {
		return err
	}
	return c.loadScoped(ctx, c.sync.Query().WithDateRange(r))
}

// OnClearDateRange drops the date window.
func (c *Controller) OnClearDateRange(ctx context.Context) error {
	return c.loadScoped(ctx, c.sync.Query().WithDateRange(model.DateRange{}))
}

// Refresh reloads the current page and resynchronizes the balance.
func (c *Controller) Refresh(ctx context.Context) error {
	if c.balance != nil {
		c.balance.Invalidate()
	}
	return c.loadScoped(ctx, c.sync.Query())
}
