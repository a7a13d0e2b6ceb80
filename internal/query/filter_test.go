package query

import (
	"testing"

	"github.com/Veraticus/expense-console/internal/common"
	"github.com/Veraticus/expense-console/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterForm_ScenarioB(t *testing.T) {
	f := NewFilterForm()
	assert.True(t, f.ValueDisabled())

	d, err := f.SelectDimension("banks")
	require.NoError(t, err)
	assert.Equal(t, model.Banks, d.Lookup)

	// Values not loaded yet.
	assert.True(t, f.ValueDisabled())
	assert.ErrorIs(t, f.SelectValue("b1"), common.ErrValidation)

	_, err = f.Submit()
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)

	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "filterValue", verr.Field)
	assert.Equal(t, "Bank is required", verr.Message)
}

func TestFilterForm_SelectAndSubmit(t *testing.T) {
	f := NewFilterForm()

	_, err := f.SelectDimension("categories")
	require.NoError(t, err)
	assert.True(t, f.ValuesLoaded("categories", []Option{{ID: "c1", Label: "Food"}, {ID: "c2", Label: "Rent"}}))
	assert.False(t, f.ValueDisabled())

	require.NoError(t, f.SelectValue("c2"))
	assert.ErrorIs(t, f.SelectValue("c9"), common.ErrValidation)

	filter, err := f.Submit()
	require.NoError(t, err)
	assert.Equal(t, Filter{By: "category", Value: "c2"}, filter)
}

func TestFilterForm_ChangingDimensionResetsValue(t *testing.T) {
	f := NewFilterForm()

	_, _ = f.SelectDimension("categories")
	f.ValuesLoaded("categories", []Option{{ID: "c1", Label: "Food"}})
	require.NoError(t, f.SelectValue("c1"))

	_, err := f.SelectDimension("stores")
	require.NoError(t, err)

	d, value, ok := f.Selected()
	assert.True(t, ok)
	assert.Equal(t, "stores", d.ID)
	assert.Empty(t, value)
	assert.Empty(t, f.Options())
	assert.True(t, f.ValueDisabled())
}

func TestFilterForm_IgnoresLateLookup(t *testing.T) {
	f := NewFilterForm()

	_, _ = f.SelectDimension("categories")
	_, _ = f.SelectDimension("banks")

	assert.False(t, f.ValuesLoaded("categories", []Option{{ID: "c1"}}))
	assert.True(t, f.ValueDisabled())

	assert.True(t, f.ValuesLoaded("banks", []Option{{ID: "b1", Label: "Acme"}}))
	assert.Equal(t, []Option{{ID: "b1", Label: "Acme"}}, f.Options())
}

func TestFilterForm_EmptySubmitClearsFilter(t *testing.T) {
	f := NewFilterForm()

	filter, err := f.Submit()
	require.NoError(t, err)
	assert.Equal(t, Filter{}, filter)

	_, err = f.SelectDimension("vendors")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestOptionsFromEntities(t *testing.T) {
	opts := OptionsFromEntities([]model.Entity{
		{ID: "b1", Name: "Acme"},
		{ID: "c1", Description: "Food"},
	})
	assert.Equal(t, []Option{{ID: "b1", Label: "Acme"}, {ID: "c1", Label: "Food"}}, opts)
}
