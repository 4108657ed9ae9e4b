// Package entity defines the response envelopes and query types shared by the web layer.
package entity

import "math"

// Msg is the standard API response.
type Msg struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	Obj     any    `json:"obj"`
}

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100

	SortAsc  = "asc"
	SortDesc = "desc"
)

// PageQuery is the input of every paginated listing.
type PageQuery struct {
	Page      int    `json:"page" form:"page"`
	PageSize  int    `json:"pageSize" form:"pageSize"`
	SortBy    string `json:"sortBy" form:"sortBy"`
	SortOrder string `json:"sortOrder" form:"sortOrder"`
}

// Normalize fills in defaults and clamps the page size.
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	if q.SortOrder != SortAsc && q.SortOrder != SortDesc {
		q.SortOrder = ""
	}
	return q
}

func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	PageCount int   `json:"pageCount"`
	Total     int64 `json:"total"`
}

// NewPagination computes the page count as ceil(total / pageSize).
func NewPagination(q PageQuery, total int64) Pagination {
	return Pagination{
		Page:      q.Page,
		PageSize:  q.PageSize,
		PageCount: int(math.Ceil(float64(total) / float64(q.PageSize))),
		Total:     total,
	}
}

type Meta struct {
	Pagination Pagination `json:"pagination"`
}

// Paginated is the {data, meta:{pagination}} shape returned by list endpoints.
type Paginated[T any] struct {
	Data []T `json:"data"`
	Meta Meta `json:"meta"`
}

func NewPaginated[T any](data []T, p Pagination) Paginated[T] {
	if data == nil {
		data = []T{}
	}
	return Paginated[T]{Data: data, Meta: Meta{Pagination: p}}
}
