// Package query builds the sort, filter and date-window parts of a list
// request and the form state that feeds them.
package query

import (
	"sync"

	"github.com/Veraticus/expense-console/internal/model"
)

// Order is the sort part of a request.
type Order struct {
	By   string
	Type model.SortDirection
}

// Sorter remembers a direction per column. Toggling the current column flips
// it; switching to another column resumes that column's last direction.
type Sorter struct {
	directions map[string]model.SortDirection
	current    string
	mu         sync.Mutex
}

// NewSorter creates a sorter with no current column.
func NewSorter() *Sorter {
	return &Sorter{directions: make(map[string]model.SortDirection)}
}

// Toggle selects column and returns the resulting order.
func (s *Sorter) Toggle(column string) Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir, seen := s.directions[column]
	switch {
	case !seen:
		dir = model.Ascending
	case column == s.current:
		dir = dir.Flip()
	}

	s.directions[column] = dir
	s.current = column

	return Order{By: column, Type: dir}
}

// Current returns the active order, if any column was selected.
func (s *Sorter) Current() (Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == "" {
		return Order{}, false
	}
	return Order{By: s.current, Type: s.directions[s.current]}, true
}

// Direction returns the remembered direction of column.
func (s *Sorter) Direction(column string) (model.SortDirection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir, ok := s.directions[column]
	return dir, ok
}
