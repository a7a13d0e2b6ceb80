package query

import (
	"fmt"
	"sync"
	"time"

	"github.com/Veraticus/expense-console/internal/common"
	"github.com/Veraticus/expense-console/internal/model"
)

// DateRangeForm holds the two date bounds. Each bound limits the other, so
// they can never cross.
type DateRangeForm struct {
	start time.Time
	end   time.Time
	mu    sync.Mutex
}

// NewDateRangeForm defaults to the calendar month containing now.
func NewDateRangeForm(now time.Time) *DateRangeForm {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return &DateRangeForm{
		start: first,
		end:   first.AddDate(0, 1, -1),
	}
}

// ParseDate parses a yyyy-MM-dd date.
func ParseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, common.NewValidationError(field, fmt.Sprintf("Invalid date %q", s))
	}
	return t, nil
}

// SetStart sets the start bound, clamped to the end bound. It returns the
// value actually applied.
func (f *DateRangeForm) SetStart(t time.Time) time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.end.IsZero() && t.After(f.end) {
		t = f.end
	}
	f.start = t
	return t
}

// SetEnd sets the end bound, clamped to the start bound.
func (f *DateRangeForm) SetEnd(t time.Time) time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.start.IsZero() && t.Before(f.start) {
		t = f.start
	}
	f.end = t
	return t
}

// MaxStart is the latest date the start field accepts.
func (f *DateRangeForm) MaxStart() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.end
}

// MinEnd is the earliest date the end field accepts.
func (f *DateRangeForm) MinEnd() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.start
}

// Range returns the current bounds.
func (f *DateRangeForm) Range() model.DateRange {
	f.mu.Lock()
	defer f.mu.Unlock()
	return model.DateRange{Start: f.start, End: f.end}
}

// Set replaces both bounds at once. Both are required and they may not
// cross; on error the form is left unchanged.
func (f *DateRangeForm) Set(r model.DateRange) error {
	switch {
	case r.Start.IsZero():
		return common.NewValidationError("startDate", "Start date is required")
	case r.End.IsZero():
		return common.NewValidationError("endDate", "End date is required")
	case r.End.Before(r.Start):
		return common.NewValidationError("endDate", "End date must not be before start date")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.start = r.Start
	f.end = r.End
	return nil
}

// Submit validates that both bounds are set.
func (f *DateRangeForm) Submit() (model.DateRange, error) {
	r := f.Range()
	if r.Start.IsZero() {
		return model.DateRange{}, common.NewValidationError("startDate", "Start date is required")
	}
	if r.End.IsZero() {
		return model.DateRange{}, common.NewValidationError("endDate", "End date is required")
	}
	return r, nil
}
