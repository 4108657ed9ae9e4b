package ui

import (
	"net/url"
	"testing"
	"time"

	"github.com/next-levels/go-cms/database/model"
	"github.com/next-levels/go-cms/web/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(items []NavItem) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.Title)
	}
	return out
}

func TestFilterNav(t *testing.T) {
	items := []NavItem{
		{Title: "home", URL: "/admin"},
		{Title: "users", URL: "/admin/users", CanAccess: []model.Role{model.RoleSuperAdmin}},
		{Title: "content", Items: []NavItem{
			{Title: "pages", URL: "/admin/pages"},
			{Title: "secret", URL: "/admin/secret", CanAccess: []model.Role{model.RoleAdmin}},
		}},
	}

	assert.Equal(t, []string{"home", "content"}, titles(FilterNav(items, model.RoleUser)))
	assert.Equal(t, []string{"pages"}, titles(FilterNav(items, model.RoleUser)[1].Items))
	assert.Equal(t, []string{"home", "users", "content"}, titles(FilterNav(items, model.RoleSuperAdmin)))
	assert.Equal(t, []string{"home", "content"}, titles(FilterNav(items, "")))

	// membership, not rank
	admin := FilterNav(items, model.RoleAdmin)
	assert.Equal(t, []string{"pages", "secret"}, titles(admin[1].Items))
	assert.Equal(t, []string{"pages"}, titles(FilterNav(items, model.RoleSuperAdmin)[2].Items))
}

func TestMarkActive(t *testing.T) {
	items := []NavItem{
		{Title: "home", URL: "/admin"},
		{Title: "users", URL: "/admin/users"},
		{Title: "content", Items: []NavItem{{Title: "pages", URL: "/admin/pages"}}},
	}

	marked := MarkActive(items, "/admin")
	assert.True(t, marked[0].IsActive)
	assert.False(t, marked[1].IsActive)

	marked = MarkActive(items, "/admin/users/42")
	assert.False(t, marked[0].IsActive)
	assert.True(t, marked[1].IsActive)
	assert.False(t, marked[2].IsActive)

	marked = MarkActive(items, "/admin/pages/new")
	assert.True(t, marked[2].IsActive)
	assert.True(t, marked[2].Items[0].IsActive)
	assert.False(t, items[2].IsActive, "input is not modified")
}

func TestPagination(t *testing.T) {
	base, err := url.Parse("/admin/users?sortBy=email&sortOrder=asc")
	require.NoError(t, err)

	p := NewPagination(entity.Pagination{Page: 1, PageSize: 10, PageCount: 0, Total: 0}, *base)
	assert.Equal(t, 1, p.PageCount())
	assert.False(t, p.CanPrevious())
	assert.False(t, p.CanNext())

	p = NewPagination(entity.Pagination{Page: 2, PageSize: 10, PageCount: 3, Total: 25}, *base)
	assert.True(t, p.CanPrevious())
	assert.True(t, p.CanNext())
	assert.Equal(t, "/admin/users?page=3&pageSize=10&sortBy=email&sortOrder=asc", p.NextURL())
	assert.Equal(t, "/admin/users?page=1&pageSize=10&sortBy=email&sortOrder=asc", p.PreviousURL())
	assert.Equal(t, "/admin/users?page=3&pageSize=10&sortBy=email&sortOrder=asc", p.LastURL())
	assert.Equal(t, "/admin/users?page=1&pageSize=50&sortBy=email&sortOrder=asc", p.PageSizeURL(50))
	assert.Equal(t, []int{10, 20, 30, 40, 50}, p.PageSizeOptions())
}

func TestNextSort(t *testing.T) {
	s := NextSort(SortState{}, "name")
	assert.Equal(t, SortState{By: "name", Order: "asc"}, s)
	s = NextSort(s, "name")
	assert.Equal(t, SortState{By: "name", Order: "desc"}, s)
	s = NextSort(s, "name")
	assert.Equal(t, SortState{}, s)
	assert.Equal(t, SortState{By: "email", Order: "asc"}, NextSort(SortState{By: "name", Order: "desc"}, "email"))
}

func TestHeaders(t *testing.T) {
	base, _ := url.Parse("/admin/users?page=3&pageSize=20")
	table := Table{
		Columns: []Column{{Key: "name", Title: "Name", Sortable: true}, {Key: "actions", Title: "Aktionen"}},
		Sort:    SortState{By: "name", Order: "asc"},
	}
	h := table.Headers(*base)
	require.Len(t, h, 2)
	assert.Equal(t, "asc", h[0].Order)
	assert.Equal(t, "/admin/users?page=1&pageSize=20&sortBy=name&sortOrder=desc", h[0].URL)
	assert.False(t, h[1].Sortable)
	assert.Empty(t, h[1].URL)
}

func TestUserForm(t *testing.T) {
	f := UserForm(nil)
	assert.Equal(t, "/admin/users/new", f.Action)
	assert.Len(t, f.Fields, 4)
	assert.True(t, f.Fields[2].Required)

	f = UserForm(&model.User{Id: "u1", Name: "Anna", Email: "anna@example.local", Role: model.RoleAdmin})
	assert.Equal(t, "/admin/users/u1", f.Action)
	assert.False(t, f.Fields[2].Required)
	assert.Equal(t, "Anna", f.Fields[0].Value)
	assert.Equal(t, "ADMIN", f.Fields[4].Value)

	f = f.WithErrors(map[string]string{"email": "Ungültige E-Mail-Adresse"})
	assert.Equal(t, "Ungültige E-Mail-Adresse", f.Fields[1].Error)
	assert.Empty(t, f.Fields[0].Error)

	f = f.WithValues(map[string]string{"password": "secret"})
	assert.Empty(t, f.Fields[2].Value)
}

func TestDateValue(t *testing.T) {
	assert.Equal(t, "", DateValue(time.Time{}))
	assert.Equal(t, "2024-03-01", DateValue(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))
}
