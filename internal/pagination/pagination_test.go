package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffset(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		want     int
	}{
		{name: "first page", page: 1, pageSize: 5, want: 0},
		{name: "third page", page: 3, pageSize: 5, want: 10},
		{name: "mobile second page", page: 2, pageSize: 10, want: 10},
		{name: "page zero treated as first", page: 0, pageSize: 5, want: 0},
		{name: "negative page treated as first", page: -2, pageSize: 5, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Offset(tt.page, tt.pageSize))
		})
	}
}

func TestSequence(t *testing.T) {
	tests := []struct {
		name     string
		want     []int
		total    int
		pageSize int
	}{
		{name: "twenty three by five", total: 23, pageSize: 5, want: []int{1, 2, 3, 4, 5}},
		{name: "exact multiple", total: 20, pageSize: 5, want: []int{1, 2, 3, 4}},
		{name: "single record", total: 1, pageSize: 10, want: []int{1}},
		{name: "empty collection", total: 0, pageSize: 5, want: []int{}},
		{name: "unknown total", total: -1, pageSize: 5, want: []int{}},
		{name: "bad page size", total: 10, pageSize: 0, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sequence(tt.total, tt.pageSize))
		})
	}
}

func TestSequence_NeverOutOfBounds(t *testing.T) {
	for total := 0; total <= 200; total++ {
		for pageSize := 1; pageSize <= 12; pageSize++ {
			pages := Sequence(total, pageSize)
			last := (total + pageSize - 1) / pageSize

			assert.Len(t, pages, last)
			for i, p := range pages {
				assert.Equal(t, i+1, p)
				assert.GreaterOrEqual(t, p, 1)
				assert.LessOrEqual(t, p, last)
			}
		}
	}
}

func TestScenarioA(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 4, 5}, Sequence(23, 5))
	assert.Equal(t, 10, Offset(3, 5))
}

func TestPolicy_PageSize(t *testing.T) {
	assert.Equal(t, DesktopPageSize, BrowserPolicy.PageSize(1280))
	assert.Equal(t, MobilePageSize, BrowserPolicy.PageSize(720))
	assert.Equal(t, MobilePageSize, BrowserPolicy.PageSize(375))
	assert.Equal(t, DesktopPageSize, TerminalPolicy.PageSize(120))
	assert.Equal(t, MobilePageSize, TerminalPolicy.PageSize(80))
}

func TestPager(t *testing.T) {
	p := Pager{Pages: Sequence(23, 5), Current: 1}

	assert.True(t, p.Visible())
	assert.False(t, p.HasPrev())
	_, ok := p.Prev()
	assert.False(t, ok)

	next, ok := p.Next()
	assert.True(t, ok)
	assert.Equal(t, 2, next)

	p.Current = 5
	assert.False(t, p.HasNext())
	_, ok = p.Next()
	assert.False(t, ok)

	assert.False(t, p.Valid(0))
	assert.False(t, p.Valid(6))
	assert.False(t, Pager{Current: 1}.Visible())
}
