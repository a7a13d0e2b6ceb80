// Package listsync keeps one resource list in step with the remote
// collection: it turns the active query into a request, fetches, and
// replaces the row collection with the result of the newest query only.
package listsync

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/Veraticus/expense-console/internal/common"
	"github.com/Veraticus/expense-console/internal/model"
	"github.com/Veraticus/expense-console/internal/pagination"
	"github.com/Veraticus/expense-console/internal/query"
	"github.com/Veraticus/expense-console/internal/rowstate"
)

// Lister fetches one page of a collection.
type Lister interface {
	List(ctx context.Context, resource model.Resource, params url.Values) (model.Page, error)
}

// Synchronizer owns the row collection and page index of one resource list.
type Synchronizer struct {
	lastErr    error
	lister     Lister
	table      *rowstate.Table
	query      model.QueryState
	pages      []int
	resource   model.Resource
	total      int
	generation uint64
	version    uint64
	loaded     uint64
	mu         sync.Mutex
	loadedOnce bool
}

// New creates a synchronizer that fills table from lister.
func New(lister Lister, table *rowstate.Table, initial model.QueryState) *Synchronizer {
	return &Synchronizer{
		lister:   lister,
		table:    table,
		resource: table.Resource(),
		query:    initial,
		total:    -1,
	}
}

// Table returns the row collection the synchronizer fills.
func (s *Synchronizer) Table() *rowstate.Table {
	return s.table
}

// Load fetches q and replaces the rows. If another Load starts before this
// one resolves, this result is dropped and common.ErrSuperseded is returned.
// A failed fetch empties the list and the page index.
func (s *Synchronizer) Load(ctx context.Context, q model.QueryState) error {
	s.mu.Lock()
	s.generation++
	ticket := s.generation
	version := s.version
	s.query = q
	s.mu.Unlock()

	params := query.Params(q)
	common.LogDebug("loading list", common.Fields{
		"resource": s.resource,
		"params":   params.Encode(),
		"ticket":   ticket,
	})

	page, err := s.lister.List(ctx, s.resource, params)

	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket != s.generation {
		common.LogDebug("dropping superseded list response", common.Fields{
			"resource": s.resource,
			"ticket":   ticket,
			"current":  s.generation,
		})
		return common.ErrSuperseded
	}

	s.loaded = version
	s.loadedOnce = true
	s.lastErr = err

	if err != nil {
		common.LogError(err, "failed to load list", common.Fields{"resource": s.resource})
		s.total = -1
		s.pages = nil
		s.table.Replace(nil)
		return err
	}

	s.total = -1
	if page.TotalKnown {
		s.total = page.TotalCount
	}
	s.pages = pagination.Sequence(s.total, q.PageSize)
	s.table.Replace(ToRows(s.resource, page.Entities))
	return nil
}

// Reload fetches the current query again.
func (s *Synchronizer) Reload(ctx context.Context) error {
	return s.Load(ctx, s.Query())
}

// Invalidate signals that the collection changed remotely (a create or a
// delete). It returns the new list version.
func (s *Synchronizer) Invalidate() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.version++
	return s.version
}

// Version returns the current list version.
func (s *Synchronizer) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.version
}

// Stale reports whether the rows predate the latest invalidation or were
// never loaded.
func (s *Synchronizer) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return !s.loadedOnce || s.loaded != s.version
}

// SyncVersion reloads the current query if the list was invalidated since
// the last load.
func (s *Synchronizer) SyncVersion(ctx context.Context) (bool, error) {
	if !s.Stale() {
		return false, nil
	}
	return true, s.Reload(ctx)
}

// Query returns the last issued query.
func (s *Synchronizer) Query() model.QueryState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.query
}

// PageIndex returns [1..totalPages] of the last applied response.
func (s *Synchronizer) PageIndex() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]int(nil), s.pages...)
}

// Pager returns the pager state for the current query.
func (s *Synchronizer) Pager() pagination.Pager {
	s.mu.Lock()
	defer s.mu.Unlock()

	return pagination.Pager{Pages: append([]int(nil), s.pages...), Current: s.query.Page}
}

// TotalCount returns the server-reported total of the last applied response.
func (s *Synchronizer) TotalCount() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.total, s.total >= 0
}

// Err returns the error of the last applied load, if it failed.
func (s *Synchronizer) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastErr
}

// Rows returns the current row collection.
func (s *Synchronizer) Rows() []model.ResourceRow {
	return s.table.Rows()
}

// IsSuperseded reports whether err only means a newer load won.
func IsSuperseded(err error) bool {
	return errors.Is(err, common.ErrSuperseded)
}
