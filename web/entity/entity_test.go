package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageQueryNormalize(t *testing.T) {
	q := PageQuery{}.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.PageSize)
	assert.Equal(t, 0, q.Offset())

	q = PageQuery{Page: 3, PageSize: 500, SortOrder: "sideways"}.Normalize()
	assert.Equal(t, MaxPageSize, q.PageSize)
	assert.Equal(t, "", q.SortOrder)
	assert.Equal(t, 200, q.Offset())
}

func TestNewPagination(t *testing.T) {
	q := PageQuery{Page: 2, PageSize: 10}
	assert.Equal(t, Pagination{Page: 2, PageSize: 10, PageCount: 3, Total: 21}, NewPagination(q, 21))
	assert.Equal(t, 0, NewPagination(q, 0).PageCount)
}

func TestNewPaginatedNeverNil(t *testing.T) {
	p := NewPaginated[string](nil, Pagination{})
	assert.NotNil(t, p.Data)
}
