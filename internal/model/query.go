package model

import "time"

// DateLayout is the wire format of dates in query parameters and payloads.
const DateLayout = "2006-01-02"

// SortDirection is the direction of the active sort.
type SortDirection string

// Sort directions.
const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// Flip returns the opposite direction.
func (d SortDirection) Flip() SortDirection {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// DateRange is an inclusive window of days. The zero value means unbounded.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether no window is set.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Equal compares two ranges by calendar day.
func (r DateRange) Equal(o DateRange) bool {
	return sameDay(r.Start, o.Start) && sameDay(r.End, o.End)
}

func sameDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return a.IsZero() == b.IsZero()
	}
	return a.Format(DateLayout) == b.Format(DateLayout)
}

// Scope is the window an aggregate balance is computed over. Page and sort
// are deliberately absent.
type Scope struct {
	DateRange   DateRange
	FilterBy    string
	FilterValue string
}

// Equal compares two scopes.
func (s Scope) Equal(o Scope) bool {
	return s.FilterBy == o.FilterBy && s.FilterValue == o.FilterValue && s.DateRange.Equal(o.DateRange)
}

// QueryState is the active list query.
type QueryState struct {
	DateRange     DateRange
	SortBy        string
	SortDirection SortDirection
	FilterBy      string
	FilterValue   string
	Page          int
	PageSize      int
}

// NewQueryState returns the first page with the given page size.
func NewQueryState(pageSize int) QueryState {
	return QueryState{
		Page:          1,
		PageSize:      pageSize,
		SortDirection: Ascending,
	}
}

// WithPage moves to page, clamped to at least 1.
func (q QueryState) WithPage(page int) QueryState {
	q.Page = max(page, 1)
	return q
}

// WithSort changes the sort and returns to the first page.
func (q QueryState) WithSort(by string, dir SortDirection) QueryState {
	q.SortBy = by
	q.SortDirection = dir
	q.Page = 1
	return q
}

// WithFilter changes the filter and returns to the first page.
func (q QueryState) WithFilter(by, value string) QueryState {
	q.FilterBy = by
	q.FilterValue = value
	q.Page = 1
	return q
}

// WithDateRange changes the date window and returns to the first page.
func (q QueryState) WithDateRange(r DateRange) QueryState {
	q.DateRange = r
	q.Page = 1
	return q
}

// Scope extracts the balance scope of the query.
func (q QueryState) Scope() Scope {
	return Scope{
		DateRange:   q.DateRange,
		FilterBy:    q.FilterBy,
		FilterValue: q.FilterValue,
	}
}
