package query

import (
	"fmt"
	"sync"

	"github.com/Veraticus/expense-console/internal/common"
	"github.com/Veraticus/expense-console/internal/model"
)

// Dimension is a column an expense list can be filtered by.
type Dimension struct {
	ID     string         // form value
	Label  string         // shown in the selector
	Param  string         // filterBy request value
	Lookup model.Resource // collection holding the selectable values
}

// Dimensions are the filterable columns, in selector order.
var Dimensions = []Dimension{
	{ID: "categories", Label: "Category", Param: "category", Lookup: model.Categories},
	{ID: "paymentType", Label: "Method", Param: "payment_type", Lookup: model.PaymentTypes},
	{ID: "banks", Label: "Bank", Param: "bank", Lookup: model.Banks},
	{ID: "stores", Label: "Store", Param: "store", Lookup: model.Stores},
}

// DimensionByID finds a dimension by its form value.
func DimensionByID(id string) (Dimension, bool) {
	for _, d := range Dimensions {
		if d.ID == id {
			return d, true
		}
	}
	return Dimension{}, false
}

// DimensionByParam finds a dimension by its request value.
func DimensionByParam(param string) (Dimension, bool) {
	for _, d := range Dimensions {
		if d.Param == param {
			return d, true
		}
	}
	return Dimension{}, false
}

// Option is one selectable filter value.
type Option struct {
	ID    string
	Label string
}

// OptionsFromEntities maps looked-up entities to selectable options.
func OptionsFromEntities(entities []model.Entity) []Option {
	opts := make([]Option, 0, len(entities))
	for _, e := range entities {
		opts = append(opts, Option{ID: e.ID, Label: e.Label()})
	}
	return opts
}

// Filter is a submitted filter; the zero value means no filter.
type Filter struct {
	By    string
	Value string
}

// FilterForm is the two-stage filter selector: a dimension first, then one
// of that dimension's values once they have been looked up.
type FilterForm struct {
	dimension *Dimension
	value     string
	options   []Option
	loading   bool
	mu        sync.Mutex
}

// NewFilterForm returns an empty form.
func NewFilterForm() *FilterForm {
	return &FilterForm{}
}

// SelectDimension chooses a dimension. Any previously chosen value is reset
// and the value selector stays disabled until ValuesLoaded is called for the
// same dimension. An empty id clears the form.
func (f *FilterForm) SelectDimension(id string) (Dimension, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.value = ""
	f.options = nil

	if id == "" {
		f.dimension = nil
		f.loading = false
		return Dimension{}, nil
	}

	d, ok := DimensionByID(id)
	if !ok {
		f.dimension = nil
		f.loading = false
		return Dimension{}, common.NewValidationError("filterBy", fmt.Sprintf("Unknown filter %q", id))
	}

	f.dimension = &d
	f.loading = true
	return d, nil
}

// ValuesLoaded enables the value selector. Results for a dimension that is
// no longer selected are ignored and false is returned.
func (f *FilterForm) ValuesLoaded(dimensionID string, options []Option) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.dimension == nil || f.dimension.ID != dimensionID {
		return false
	}
	f.options = options
	f.loading = false
	return true
}

// LookupFailed leaves the selector enabled with no options, so the form can
// only be cleared or retried.
func (f *FilterForm) LookupFailed(dimensionID string) {
	f.ValuesLoaded(dimensionID, nil)
}

// ValueDisabled reports whether the value selector accepts input.
func (f *FilterForm) ValueDisabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.dimension == nil || f.loading
}

// Options returns the selectable values of the chosen dimension.
func (f *FilterForm) Options() []Option {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]Option(nil), f.options...)
}

// SelectValue chooses one of the loaded options.
func (f *FilterForm) SelectValue(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.dimension == nil || f.loading {
		return common.NewValidationError("filterValue", "Select a filter first")
	}
	for _, o := range f.options {
		if o.ID == id {
			f.value = id
			return nil
		}
	}
	return common.NewValidationError("filterValue", fmt.Sprintf("Unknown %s", f.dimension.Label))
}

// Selected returns the chosen dimension and value.
func (f *FilterForm) Selected() (Dimension, string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.dimension == nil {
		return Dimension{}, "", false
	}
	return *f.dimension, f.value, true
}

// Submit validates the form. A chosen dimension without a value is a
// ValidationError; no dimension at all submits an empty filter.
func (f *FilterForm) Submit() (Filter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.dimension == nil {
		return Filter{}, nil
	}
	if f.value == "" {
		return Filter{}, common.NewValidationError("filterValue", fmt.Sprintf("%s is required", f.dimension.Label))
	}
	return Filter{By: f.dimension.Param, Value: f.value}, nil
}
