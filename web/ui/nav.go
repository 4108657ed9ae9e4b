// Package ui holds the view models of the admin panel: sidebar navigation,
// data tables with pagination and sortable headers, and form fields.
package ui

import (
	"slices"
	"strings"

	"github.com/next-levels/go-cms/database/model"
)

// AdminRoot is only active on an exact match.
const AdminRoot = "/admin"

type NavItem struct {
	Title    string
	URL      string
	Icon     string
	IsActive bool
	Items    []NavItem
	// CanAccess lists the roles that see the item; empty means everyone.
	CanAccess []model.Role
}

func (n NavItem) visibleTo(role model.Role) bool {
	if len(n.CanAccess) == 0 {
		return true
	}
	return role != "" && slices.Contains(n.CanAccess, role)
}

// FilterNav drops the items role may not see, recursively.
func FilterNav(items []NavItem, role model.Role) []NavItem {
	out := make([]NavItem, 0, len(items))
	for _, item := range items {
		if !item.visibleTo(role) {
			continue
		}
		if len(item.Items) > 0 {
			item.Items = FilterNav(item.Items, role)
		}
		out = append(out, item)
	}
	return out
}

// MarkActive flags the items matching path. The admin root needs an exact
// match; a parent is active when one of its children is.
func MarkActive(items []NavItem, path string) []NavItem {
	out := make([]NavItem, len(items))
	for i, item := range items {
		if len(item.Items) > 0 {
			item.Items = MarkActive(item.Items, path)
			item.IsActive = slices.ContainsFunc(item.Items, func(sub NavItem) bool { return sub.IsActive })
		} else if item.URL == AdminRoot {
			item.IsActive = path == item.URL
		} else {
			item.IsActive = item.URL != "" && strings.Contains(path, item.URL)
		}
		out[i] = item
	}
	return out
}

// AdminNav is the sidebar of the admin panel.
func AdminNav() []NavItem {
	return []NavItem{
		{Title: "pages.dashboard.title", URL: AdminRoot, Icon: "home"},
		{Title: "pages.users.title", URL: "/admin/users", Icon: "users", CanAccess: []model.Role{model.RoleSuperAdmin}},
		{Title: "pages.orders.title", URL: "/admin/orders", Icon: "trees", CanAccess: []model.Role{model.RoleAdmin, model.RoleSuperAdmin}},
		{Title: "pages.logs.title", URL: "/admin/logs", Icon: "logs", CanAccess: []model.Role{model.RoleSuperAdmin}},
	}
}
