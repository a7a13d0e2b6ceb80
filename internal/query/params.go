package query

import (
	"net/url"
	"strconv"

	"github.com/Veraticus/expense-console/internal/model"
	"github.com/Veraticus/expense-console/internal/pagination"
)

// Params converts a query into request parameters. Optional keys are omitted
// when unset.
func Params(q model.QueryState) url.Values {
	v := url.Values{}
	v.Set("offset", strconv.Itoa(pagination.Offset(q.Page, q.PageSize)))
	v.Set("limit", strconv.Itoa(q.PageSize))

	if q.SortBy != "" {
		dir := q.SortDirection
		if dir == "" {
			dir = model.Ascending
		}
		v.Set("orderBy", q.SortBy)
		v.Set("orderType", string(dir))
	}

	if q.FilterBy != "" && q.FilterValue != "" {
		v.Set("filterBy", q.FilterBy)
		v.Set("filterValue", q.FilterValue)
	}

	setDates(v, q.DateRange)
	return v
}

// ScopeParams converts a balance scope into request parameters.
func ScopeParams(s model.Scope) url.Values {
	v := url.Values{}
	if s.FilterBy != "" && s.FilterValue != "" {
		v.Set("filterBy", s.FilterBy)
		v.Set("filterValue", s.FilterValue)
	}
	setDates(v, s.DateRange)
	return v
}

func setDates(v url.Values, r model.DateRange) {
	if !r.Start.IsZero() {
		v.Set("startDate", r.Start.Format(model.DateLayout))
	}
	if !r.End.IsZero() {
		v.Set("endDate", r.End.Format(model.DateLayout))
	}
}
