package service

import (
	"context"
	"strings"
	"time"

	"github.com/next-levels/go-cms/auth"
	"github.com/next-levels/go-cms/config"
	"github.com/next-levels/go-cms/database"
	"github.com/next-levels/go-cms/database/model"
	"github.com/next-levels/go-cms/logger"
	"github.com/next-levels/go-cms/util/crypto"
	"github.com/next-levels/go-cms/web/entity"

	"github.com/skip2/go-qrcode"
	"github.com/xlzd/gotp"
	"gorm.io/gorm"
)

// UserInput is the create form of the user admin.
type UserInput struct {
	Name                 string `json:"name" form:"name" validate:"required"`
	Email                string `json:"email" form:"email" validate:"required,email"`
	Password             string `json:"password" form:"password" validate:"required"`
	PasswordConfirmation string `json:"passwordConfirmation" form:"passwordConfirmation" validate:"required"`
}

// UserUpdateInput leaves the password untouched when it is blank.
type UserUpdateInput struct {
	Name                 string `json:"name" form:"name" validate:"required"`
	Email                string `json:"email" form:"email" validate:"required,email"`
	Password             string `json:"password" form:"password"`
	PasswordConfirmation string `json:"passwordConfirmation" form:"passwordConfirmation"`
}

// userSortColumns maps sortable API fields to columns.
var userSortColumns = map[string]string{
	"id":        "id",
	"name":      "name",
	"email":     "email",
	"role":      "role",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type UserService struct {
	resetService PasswordResetService
	mailService  MailService
}

// FindUserByEmail returns nil without error when no user has the address.
func (s *UserService) FindUserByEmail(email string) (*model.User, error) {
	user := &model.User{}
	err := database.GetDB().Where("email = ?", strings.TrimSpace(email)).First(user).Error
	if database.IsNotFound(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(id string) (*model.User, error) {
	user := &model.User{}
	err := database.GetDB().Where("id = ?", id).First(user).Error
	if database.IsNotFound(err) {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListAll() ([]model.User, error) {
	var users []model.User
	err := database.GetDB().Order("created_at desc").Find(&users).Error
	return users, err
}

// ListPaginated orders by created_at desc unless both a known sort column and a direction are given.
func (s *UserService) ListPaginated(q entity.PageQuery) ([]model.User, entity.Pagination, error) {
	q = q.Normalize()
	db := database.GetDB()

	var total int64
	if err := db.Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, entity.Pagination{}, err
	}

	order := "created_at desc"
	if column, ok := userSortColumns[q.SortBy]; ok && q.SortOrder != "" {
		order = column + " " + q.SortOrder
	} else if q.SortBy != "" {
		logger.Debugf("ignoring sort %q %q", q.SortBy, q.SortOrder)
	}

	var users []model.User
	err := db.Order(order).Offset(q.Offset()).Limit(q.PageSize).Find(&users).Error
	if err != nil {
		return nil, entity.Pagination{}, err
	}
	return users, entity.NewPagination(q, total), nil
}

// Create adds a USER account from the admin form.
func (s *UserService) Create(in UserInput) (*model.User, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.Password != in.PasswordConfirmation {
		return nil, ErrPasswordMismatch
	}
	return s.CreateWithRole(in.Name, in.Email, in.Password, model.RoleUser)
}

func (s *UserService) CreateWithRole(name, email, password string, role model.Role) (*model.User, error) {
	if _, err := auth.ParseRole(string(role)); err != nil {
		return nil, ErrInvalidRole
	}
	existing, err := s.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}
	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: hash,
		Role:     role,
	}
	if err := database.GetDB().Create(user).Error; err != nil {
		return nil, err
	}
	logger.Infof("user %s created with role %s", user.Email, user.Role)
	return user, nil
}

func (s *UserService) Update(id string, in UserUpdateInput) (*model.User, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.Password != in.PasswordConfirmation {
		return nil, ErrPasswordMismatch
	}
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	db := database.GetDB()
	var conflicts int64
	err = db.Model(&model.User{}).
		Where("email = ? AND id <> ?", strings.TrimSpace(in.Email), id).
		Count(&conflicts).Error
	if err != nil {
		return nil, err
	}
	if conflicts > 0 {
		return nil, ErrEmailTaken
	}

	updates := map[string]any{
		"name":  strings.TrimSpace(in.Name),
		"email": strings.TrimSpace(in.Email),
	}
	if strings.TrimSpace(in.Password) != "" {
		hash, err := crypto.HashPasswordAsBcrypt(in.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hash
	}
	if err := db.Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetUser(id)
}

func (s *UserService) UpdateRole(id string, role string) (*model.User, error) {
	r, err := auth.ParseRole(role)
	if err != nil {
		return nil, ErrInvalidRole
	}
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	if err := database.GetDB().Model(user).Update("role", r).Error; err != nil {
		return nil, err
	}
	user.Role = r
	return user, nil
}

// SetPassword replaces the password without any token, for the CLI.
func (s *UserService) SetPassword(id, password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return err
	}
	res := database.GetDB().Model(&model.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes the user and its reset tokens; its orders are kept without owner.
func (s *UserService) Delete(id string) (*model.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Order{}).Where("user_id = ?", id).Update("user_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.PasswordResetToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
	if err != nil {
		return nil, err
	}
	logger.Infof("user %s deleted", user.Email)
	return user, nil
}

// CountByRole returns the number of users per role.
func (s *UserService) CountByRole() (map[model.Role]int64, error) {
	var rows []struct {
		Role  model.Role
		Count int64
	}
	err := database.GetDB().Model(&model.User{}).
		Select("role, COUNT(*) as count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[model.Role]int64, len(auth.Roles()))
	for _, r := range auth.Roles() {
		counts[r] = 0
	}
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}

// ForgotPassword mails a reset link. Unknown addresses succeed silently.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.FindUserByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		logger.Debugf("password reset requested for unknown address %s", email)
		return nil
	}

	token, err := s.resetService.Create(user.Id)
	if err != nil {
		logger.Warning("creating reset token failed:", err)
		return ErrMailSend
	}
	err = s.mailService.SendPasswordReset(ctx, PasswordResetEmailData{
		UserEmail:         user.Email,
		UserName:          user.Name,
		ResetPasswordLink: s.resetService.ResetURL(token),
	})
	if err != nil {
		return ErrMailSend
	}
	return nil
}

// TwoFactorSetup is shown once while enabling TOTP.
type TwoFactorSetup struct {
	Secret string `json:"secret"`
	URI    string `json:"uri"`
	QRCode []byte `json:"qrCode"`
}

// NewTwoFactorSetup generates a secret for the user without storing it.
func (s *UserService) NewTwoFactorSetup(id string) (*TwoFactorSetup, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	if user.HasTwoFactor() {
		return nil, ErrTwoFactorEnabled
	}
	secret := gotp.RandomSecret(32)
	uri := gotp.NewDefaultTOTP(secret).ProvisioningUri(user.Email, config.GetName())
	png, err := qrcode.Encode(uri, qrcode.Medium, 256)
	if err != nil {
		return nil, err
	}
	return &TwoFactorSetup{Secret: secret, URI: uri, QRCode: png}, nil
}

// EnableTwoFactor stores secret once code proves the authenticator is set up.
func (s *UserService) EnableTwoFactor(id, secret, code string) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}
	if user.HasTwoFactor() {
		return ErrTwoFactorEnabled
	}
	if !auth.VerifyTOTP(secret, code, time.Now()) {
		return ErrInvalidTwoFactorCode
	}
	return database.GetDB().Model(user).Update("two_factor_secret", secret).Error
}

func (s *UserService) DisableTwoFactor(id, code string) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}
	if !user.HasTwoFactor() {
		return ErrTwoFactorDisabled
	}
	if !auth.VerifyTOTP(user.TwoFactorSecret, code, time.Now()) {
		return ErrInvalidTwoFactorCode
	}
	return database.GetDB().Model(user).Update("two_factor_secret", "").Error
}
