package query

import (
	"testing"

	"github.com/Veraticus/expense-console/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestSorter_Toggle(t *testing.T) {
	s := NewSorter()

	_, ok := s.Current()
	assert.False(t, ok)

	assert.Equal(t, Order{By: "amount", Type: model.Ascending}, s.Toggle("amount"))
	assert.Equal(t, Order{By: "amount", Type: model.Descending}, s.Toggle("amount"))
	assert.Equal(t, Order{By: "amount", Type: model.Ascending}, s.Toggle("amount"))
}

func TestSorter_RemembersDirectionPerColumn(t *testing.T) {
	s := NewSorter()

	s.Toggle("amount")
	assert.Equal(t, model.Descending, s.Toggle("amount").Type)

	assert.Equal(t, Order{By: "date", Type: model.Ascending}, s.Toggle("date"))

	// Coming back to amount resumes desc instead of starting over.
	assert.Equal(t, Order{By: "amount", Type: model.Descending}, s.Toggle("amount"))

	dir, ok := s.Direction("date")
	assert.True(t, ok)
	assert.Equal(t, model.Ascending, dir)

	current, ok := s.Current()
	assert.True(t, ok)
	assert.Equal(t, "amount", current.By)

	// Only the current column flips.
	assert.Equal(t, model.Ascending, s.Toggle("amount").Type)
	dir, _ = s.Direction("date")
	assert.Equal(t, model.Ascending, dir)
}
