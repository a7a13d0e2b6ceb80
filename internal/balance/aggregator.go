// Package balance keeps the income/outcome/net aggregate of the active
// scope. It refetches when the scope changes and never on page or sort
// changes.
package balance

import (
	"context"
	"sync"

	"github.com/Veraticus/expense-console/internal/common"
	"github.com/Veraticus/expense-console/internal/model"
)

// Fetcher returns the aggregate balance of a scope.
type Fetcher interface {
	Balance(ctx context.Context, scope model.Scope) (model.BalanceSnapshot, error)
}

// Store persists the last snapshot across sessions.
type Store interface {
	SaveBalance(ctx context.Context, snapshot model.BalanceSnapshot) error
	LoadBalance(ctx context.Context) (model.BalanceSnapshot, error)
}

// Aggregator owns the current balance snapshot.
type Aggregator struct {
	fetcher    Fetcher
	store      Store
	snapshot   model.BalanceSnapshot
	scope      model.Scope
	generation uint64
	mu         sync.Mutex
	fetched    bool
	dirty      bool
	restored   bool
}

// NewAggregator creates an aggregator. store may be nil.
func NewAggregator(fetcher Fetcher, store Store) *Aggregator {
	return &Aggregator{fetcher: fetcher, store: store}
}

// Refresh fetches the balance of scope and replaces the snapshot. A result
// that arrives after a newer Refresh started is dropped with
// common.ErrSuperseded. On failure the previous snapshot stays visible and
// the next Sync fetches again.
func (a *Aggregator) Refresh(ctx context.Context, scope model.Scope) (model.BalanceSnapshot, error) {
	a.mu.Lock()
	a.generation++
	ticket := a.generation
	a.scope = scope
	a.mu.Unlock()

	snap, err := a.fetcher.Balance(ctx, scope)

	a.mu.Lock()
	if ticket != a.generation {
		a.mu.Unlock()
		return model.BalanceSnapshot{}, common.ErrSuperseded
	}
	if err != nil {
		a.dirty = true
		a.mu.Unlock()
		common.LogError(err, "failed to fetch balance", common.Fields{
			"filter_by":    scope.FilterBy,
			"filter_value": scope.FilterValue,
		})
		return model.BalanceSnapshot{}, err
	}

	snap.Scope = scope
	a.snapshot = snap
	a.fetched = true
	a.dirty = false
	a.restored = false
	a.mu.Unlock()

	if a.store != nil {
		if err := a.store.SaveBalance(ctx, snap); err != nil {
			common.LogError(err, "failed to persist balance", nil)
		}
	}
	return snap, nil
}

// Sync refreshes only when scope differs from the last requested scope or
// the snapshot was invalidated. It reports whether a fetch happened.
func (a *Aggregator) Sync(ctx context.Context, scope model.Scope) (bool, error) {
	if !a.needsRefresh(scope) {
		return false, nil
	}
	_, err := a.Refresh(ctx, scope)
	return true, err
}

func (a *Aggregator) needsRefresh(scope model.Scope) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return !a.fetched || a.dirty || !a.scope.Equal(scope)
}

// Invalidate forces the next Sync to fetch.
func (a *Aggregator) Invalidate() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.dirty = true
}

// Snapshot returns the current snapshot and whether one exists.
func (a *Aggregator) Snapshot() (model.BalanceSnapshot, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.snapshot, a.fetched || a.restored
}

// Restore loads the persisted snapshot so something is visible before the
// first fetch resolves. It never counts as a fetch: Sync still goes out.
func (a *Aggregator) Restore(ctx context.Context) error {
	if a.store == nil {
		return nil
	}
	snap, err := a.store.LoadBalance(ctx)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.fetched {
		return nil
	}
	a.snapshot = snap
	a.restored = true
	return nil
}
