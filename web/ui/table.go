package ui

import (
	"net/url"
	"strconv"

	"github.com/next-levels/go-cms/web/entity"
)

// PageSizeOptions are offered by the rows-per-page select.
var PageSizeOptions = []int{10, 20, 30, 40, 50}

type Column struct {
	Key      string
	Title    string
	Sortable bool
}

type Table struct {
	Columns    []Column
	Rows       [][]any
	Pagination Pagination
	Sort       SortState
}

type SortState struct {
	By    string
	Order string
}

// Pagination is the footer of a table, built from the API pagination meta.
type Pagination struct {
	Page     int
	PageSize int
	Total    int64

	pageCount int
	base      url.URL
}

// NewPagination keeps the query of base (filters, sort) in the generated links.
func NewPagination(p entity.Pagination, base url.URL) Pagination {
	return Pagination{
		Page:      p.Page,
		PageSize:  p.PageSize,
		Total:     p.Total,
		pageCount: p.PageCount,
		base:      base,
	}
}

// PageCount is at least one, so an empty table still shows "page 1 of 1".
func (p Pagination) PageCount() int {
	return max(p.pageCount, 1)
}

func (p Pagination) CanPrevious() bool {
	return p.Page > 1
}

func (p Pagination) CanNext() bool {
	return p.Page < p.PageCount()
}

func (p Pagination) PageSizeOptions() []int {
	return PageSizeOptions
}

func (p Pagination) link(page, pageSize int) string {
	u := p.base
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	u.RawQuery = q.Encode()
	return u.String()
}

func (p Pagination) FirstURL() string    { return p.link(1, p.PageSize) }
func (p Pagination) PreviousURL() string { return p.link(max(p.Page-1, 1), p.PageSize) }
func (p Pagination) NextURL() string     { return p.link(min(p.Page+1, p.PageCount()), p.PageSize) }
func (p Pagination) LastURL() string     { return p.link(p.PageCount(), p.PageSize) }

// PageSizeURL switches the page size and goes back to the first page.
func (p Pagination) PageSizeURL(size int) string { return p.link(1, size) }

// NextSort cycles a column through ascending, descending and unsorted.
func NextSort(current SortState, column string) SortState {
	if current.By != column {
		return SortState{By: column, Order: entity.SortAsc}
	}
	switch current.Order {
	case entity.SortAsc:
		return SortState{By: column, Order: entity.SortDesc}
	case entity.SortDesc:
		return SortState{}
	}
	return SortState{By: column, Order: entity.SortAsc}
}

// SortHeader is a rendered column header.
type SortHeader struct {
	Title    string
	Sortable bool
	// Order is "asc", "desc" or empty for the current sort of this column.
	Order string
	URL   string
}

// Headers builds the column headers; clicking one applies NextSort.
func (t Table) Headers(base url.URL) []SortHeader {
	headers := make([]SortHeader, 0, len(t.Columns))
	for _, col := range t.Columns {
		h := SortHeader{Title: col.Title, Sortable: col.Sortable}
		if col.Sortable {
			if t.Sort.By == col.Key {
				h.Order = t.Sort.Order
			}
			next := NextSort(t.Sort, col.Key)
			u := base
			q := u.Query()
			q.Del("sortBy")
			q.Del("sortOrder")
			if next.By != "" {
				q.Set("sortBy", next.By)
				q.Set("sortOrder", next.Order)
			}
			q.Set("page", "1")
			u.RawQuery = q.Encode()
			h.URL = u.String()
		}
		headers = append(headers, h)
	}
	return headers
}
