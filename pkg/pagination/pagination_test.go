package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	p := Params{Page: 0, PerPage: 1000}
	p.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, maxPerPage, p.PerPage)

	p = Params{Page: 3, PerPage: 0}
	p.Normalize()
	assert.Equal(t, defaultPerPage, p.PerPage)
	assert.Equal(t, 40, p.Offset())
}

func TestNewPage(t *testing.T) {
	page := NewPage([]int(nil), Params{Page: 2, PerPage: 10}, 25)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNext)
	assert.True(t, page.Pagination.HasPrev)

	mapped := Map(&Page[int]{Items: []int{1, 2}, Pagination: page.Pagination}, func(i int) string {
		return string(rune('a' + i))
	})
	assert.Equal(t, []string{"b", "c"}, mapped.Items)
}
