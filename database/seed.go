package database

import (
	"time"

	"github.com/next-levels/go-cms/database/model"
	"github.com/next-levels/go-cms/logger"
	"github.com/next-levels/go-cms/util/crypto"
)

// SeedUser is a demo account created by Seed.
type SeedUser struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
}

// DemoUsers returns the demo accounts for the given mail domain.
func DemoUsers(domain string) []SeedUser {
	return []SeedUser{
		{Name: "Super Administrator", Email: "superadmin@" + domain, Password: "superadmin123", Role: model.RoleSuperAdmin},
		{Name: "Template Admin", Email: "admin@" + domain, Password: "admin123", Role: model.RoleAdmin},
		{Name: "Max Mustermann", Email: "user@" + domain, Password: "user123", Role: model.RoleUser},
	}
}

// Seed inserts the demo accounts. Accounts whose e-mail already exists are skipped.
func Seed(domain string) ([]SeedUser, error) {
	created := make([]SeedUser, 0, 3)
	now := time.Now()
	for _, su := range DemoUsers(domain) {
		var count int64
		if err := db.Model(&model.User{}).Where("email = ?", su.Email).Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			logger.Infof("seed: %s already exists", su.Email)
			continue
		}
		hash, err := crypto.HashPasswordAsBcrypt(su.Password)
		if err != nil {
			return created, err
		}
		user := &model.User{
			Name:          su.Name,
			Email:         su.Email,
			Password:      hash,
			Role:          su.Role,
			EmailVerified: &now,
		}
		if err := db.Create(user).Error; err != nil {
			return created, err
		}
		logger.Infof("seed: created %s user %s", su.Role, su.Email)
		created = append(created, su)
	}
	return created, nil
}
