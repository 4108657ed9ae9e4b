// Package model contains the gorm models persisted by the CMS.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is one of three fixed values ordered USER < ADMIN < SUPERADMIN.
type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPERADMIN"
)

type User struct {
	Id              string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name            string     `json:"name" gorm:"not null"`
	Email           string     `json:"email" gorm:"uniqueIndex;not null"`
	Password        string     `json:"-" gorm:"not null"`
	Role            Role       `json:"role" gorm:"type:varchar(16);not null;default:USER"`
	TwoFactorSecret string     `json:"-"`
	EmailVerified   *time.Time `json:"emailVerified"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	Orders          []Order    `json:"orders,omitempty" gorm:"foreignKey:UserId;constraint:OnDelete:SET NULL"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Id == "" {
		u.Id = uuid.NewString()
	}
	return nil
}

// HasTwoFactor reports whether a TOTP code is required at login.
func (u *User) HasTwoFactor() bool {
	return u.TwoFactorSecret != ""
}

type PasswordResetToken struct {
	Id        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Token     string    `json:"-" gorm:"uniqueIndex;not null"`
	UserId    string    `json:"userId" gorm:"index;not null"`
	User      User      `json:"-" gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
	Expires   time.Time `json:"expires" gorm:"not null"`
	Used      bool      `json:"used" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt"`
}

func (t *PasswordResetToken) BeforeCreate(tx *gorm.DB) error {
	if t.Id == "" {
		t.Id = uuid.NewString()
	}
	return nil
}

// IsExpired reports whether the token expired before now.
func (t *PasswordResetToken) IsExpired(now time.Time) bool {
	return t.Expires.Before(now)
}

type Order struct {
	Id          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	FirstName   string    `json:"firstName" gorm:"not null"`
	LastName    string    `json:"lastName" gorm:"not null"`
	Street      *string   `json:"street"`
	HouseNumber *string   `json:"houseNumber"`
	Zip         *string   `json:"zip"`
	City        *string   `json:"city"`
	Email       string    `json:"email" gorm:"index;not null"`
	Phone       *string   `json:"phone"`
	Amount      int       `json:"amount" gorm:"not null"`
	BoughtAt    time.Time `json:"boughtAt" gorm:"not null"`
	UserId      *string   `json:"userId" gorm:"index;type:varchar(36)"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.Id == "" {
		o.Id = uuid.NewString()
	}
	return nil
}

// AuditLog records a mutating request made by a signed-in user.
type AuditLog struct {
	ID         int       `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID     string    `json:"userId" gorm:"index"`
	Email      string    `json:"email"`
	Action     string    `json:"action" gorm:"index"`
	Resource   string    `json:"resource" gorm:"index"`
	ResourceID string    `json:"resourceId"`
	IP         string    `json:"ip"`
	UserAgent  string    `json:"userAgent"`
	Details    string    `json:"details"`
	Timestamp  time.Time `json:"timestamp" gorm:"index"`
}
