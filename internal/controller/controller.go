// Package controller composes pagination, query building, row interaction,
// list synchronization and the balance aggregate into the state and
// handlers one resource screen needs. It holds no rendering code.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/expense-console/internal/balance"
	"github.com/Veraticus/expense-console/internal/common"
	"github.com/Veraticus/expense-console/internal/listsync"
	"github.com/Veraticus/expense-console/internal/model"
	"github.com/Veraticus/expense-console/internal/pagination"
	"github.com/Veraticus/expense-console/internal/query"
	"github.com/Veraticus/expense-console/internal/rowstate"
	"golang.org/x/sync/errgroup"
)

const maxNotices = 5

// Gateway is the remote side of a resource screen.
type Gateway interface {
	listsync.Lister
	rowstate.Updater
	rowstate.Deleter
	All(ctx context.Context, resource model.Resource) ([]model.Entity, error)
	Create(ctx context.Context, resource model.Resource, payload any) (model.Entity, error)
}

// Config wires a controller.
type Config struct {
	Gateway  Gateway
	Notifier Notifier
	// Balance is only consulted for the expenses list.
	Balance  *balance.Aggregator
	Now      func() time.Time
	Resource model.Resource
	PageSize int
}

// View is everything a presentation layer renders.
type View struct {
	Balance     *model.BalanceSnapshot
	Sort        query.Order
	Filter      query.Filter
	DateRange   model.DateRange
	Resource    model.Resource
	Rows        []model.ResourceRow
	PageIndex   []int
	Notices     []Notice
	CurrentPage int
	Sorted      bool
	LoadFailed  bool
}

// Pager returns the pager state of the view.
func (v View) Pager() pagination.Pager {
	return pagination.Pager{Pages: v.PageIndex, Current: v.CurrentPage}
}

// Controller drives one resource screen.
type Controller struct {
	gw       Gateway
	notifier Notifier
	balance  *balance.Aggregator
	now      func() time.Time
	sync     *listsync.Synchronizer
	table    *rowstate.Table
	sorter   *query.Sorter
	filter   *query.FilterForm
	dates    *query.DateRangeForm
	lookups  map[model.Resource][]model.Entity
	notices  []Notice
	resource model.Resource
	mu       sync.Mutex
}

// New creates a controller. Nothing is fetched until OnMount.
func New(cfg Config) *Controller {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = pagination.DesktopPageSize
	}

	var agg *balance.Aggregator
	if cfg.Resource == model.Expenses {
		agg = cfg.Balance
	}

	table := rowstate.NewTable(cfg.Resource)
	return &Controller{
		gw:       cfg.Gateway,
		notifier: cfg.Notifier,
		balance:  agg,
		now:      now,
		table:    table,
		sync:     listsync.New(cfg.Gateway, table, model.NewQueryState(pageSize)),
		sorter:   query.NewSorter(),
		filter:   query.NewFilterForm(),
		dates:    query.NewDateRangeForm(now()),
		lookups:  make(map[model.Resource][]model.Entity),
		resource: cfg.Resource,
	}
}

// Resource returns the resource of the screen.
func (c *Controller) Resource() model.Resource {
	return c.resource
}

// FilterForm returns the two-stage filter selector.
func (c *Controller) FilterForm() *query.FilterForm {
	return c.filter
}

// DateForm returns the date window form.
func (c *Controller) DateForm() *query.DateRangeForm {
	return c.dates
}

// Query returns the active query.
func (c *Controller) Query() model.QueryState {
	return c.sync.Query()
}

// State returns a snapshot of everything the screen renders.
func (c *Controller) State() View {
	q := c.sync.Query()
	v := View{
		Resource:    c.resource,
		Rows:        c.sync.Rows(),
		PageIndex:   c.sync.PageIndex(),
		CurrentPage: q.Page,
		Filter:      query.Filter{By: q.FilterBy, Value: q.FilterValue},
		DateRange:   q.DateRange,
		LoadFailed:  c.sync.Err() != nil,
	}
	v.Sort, v.Sorted = c.sorter.Current()

	if c.balance != nil {
		if snap, ok := c.balance.Snapshot(); ok {
			v.Balance = &snap
		}
	}

	c.mu.Lock()
	v.Notices = append([]Notice(nil), c.notices...)
	c.mu.Unlock()

	return v
}

func (c *Controller) notify(n Notice) {
	n.Time = c.now()

	c.mu.Lock()
	c.notices = append(c.notices, n)
	if len(c.notices) > maxNotices {
		c.notices = c.notices[len(c.notices)-maxNotices:]
	}
	c.mu.Unlock()

	if c.notifier != nil {
		c.notifier.Notify(n)
	}
}

// OnMount restores the cached balance, then loads the first page, the
// balance and, for expenses, the lookup lists of every filter dimension
// concurrently. Only a list failure is returned; it also leaves the list
// empty.
func (c *Controller) OnMount(ctx context.Context) error {
	if c.balance != nil {
		if err := c.balance.Restore(ctx); err != nil && !errors.Is(err, common.ErrNotFound) {
			common.LogDebug("no cached balance restored", common.Fields{"error": err.Error()})
		}
	}

	var g errgroup.Group
	q := c.sync.Query().WithPage(1)

	g.Go(func() error {
		return ignoreSuperseded(c.sync.Load(ctx, q))
	})

	if c.balance != nil {
		g.Go(func() error {
			_, err := c.balance.Sync(ctx, q.Scope())
			if err != nil {
				common.LogDebug("balance unavailable at mount", common.Fields{"error": err.Error()})
			}
			return nil
		})
	}

	if c.resource == model.Expenses {
		for _, d := range query.Dimensions {
			d := d
			g.Go(func() error {
				if _, err := c.Lookup(ctx, d.Lookup); err != nil {
					common.LogDebug("lookup unavailable at mount", common.Fields{"resource": d.Lookup, "error": err.Error()})
				}
				return nil
			})
		}
	}

	return g.Wait()
}

// Lookup returns every record of resource sorted by label. Results are
// cached for the life of the controller; InvalidateLookups drops them.
func (c *Controller) Lookup(ctx context.Context, resource model.Resource) ([]model.Entity, error) {
	c.mu.Lock()
	cached, ok := c.lookups[resource]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	entities, err := c.gw.All(ctx, resource)
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s: %w", resource, err)
	}
	sort.SliceStable(entities, func(i, j int) bool {
		return strings.ToLower(entities[i].Label()) < strings.ToLower(entities[j].Label())
	})

	c.mu.Lock()
	c.lookups[resource] = entities
	c.mu.Unlock()

	return entities, nil
}

// InvalidateLookups drops the cached lookup lists.
func (c *Controller) InvalidateLookups() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lookups = make(map[model.Resource][]model.Entity)
}

func ignoreSuperseded(err error) error {
	if listsync.IsSuperseded(err) {
		return nil
	}
	return err
}
