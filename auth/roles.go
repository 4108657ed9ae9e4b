package auth

import (
	"fmt"
	"slices"

	"github.com/next-levels/go-cms/database/model"
)

// Permission strings granted by RolePermissions.
const (
	PermReadOwn   = "read:own"
	PermReadAll   = "read:all"
	PermCreate    = "create"
	PermUpdateAll = "update:all"
	PermDeleteAll = "delete:all"
	PermAll       = "*"
)

// RoleHierarchy ranks the roles; unknown roles rank 0.
var RoleHierarchy = map[model.Role]int{
	model.RoleUser:       1,
	model.RoleAdmin:      2,
	model.RoleSuperAdmin: 3,
}

var RolePermissions = map[model.Role][]string{
	model.RoleUser:       {PermReadOwn},
	model.RoleAdmin:      {PermReadOwn, PermReadAll, PermCreate, PermUpdateAll, PermDeleteAll},
	model.RoleSuperAdmin: {PermAll},
}

// Roles lists the roles from lowest to highest.
func Roles() []model.Role {
	return []model.Role{model.RoleUser, model.RoleAdmin, model.RoleSuperAdmin}
}

func ParseRole(s string) (model.Role, error) {
	r := model.Role(s)
	if _, ok := RoleHierarchy[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// HasRole reports whether userRole ranks at or above requiredRole.
func HasRole(userRole, requiredRole model.Role) bool {
	rank, ok := RoleHierarchy[userRole]
	if !ok {
		return false
	}
	return rank >= RoleHierarchy[requiredRole]
}

func HasPermission(userRole model.Role, permission string) bool {
	perms := RolePermissions[userRole]
	return slices.Contains(perms, PermAll) || slices.Contains(perms, permission)
}

func CanAccessAdmin(userRole model.Role) bool {
	return HasRole(userRole, model.RoleAdmin)
}

func CanManageUsers(userRole model.Role) bool {
	return HasRole(userRole, model.RoleSuperAdmin)
}
