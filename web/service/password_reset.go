package service

import (
	"net/url"
	"time"

	"github.com/next-levels/go-cms/config"
	"github.com/next-levels/go-cms/database"
	"github.com/next-levels/go-cms/database/model"
	"github.com/next-levels/go-cms/logger"
	"github.com/next-levels/go-cms/util/crypto"
	"github.com/next-levels/go-cms/util/random"

	"gorm.io/gorm"
)

const (
	ResetTokenBytes    = 32
	ResetTokenLifetime = 24 * time.Hour
	ResetPasswordPath  = "/auth/reset-password"
	MinPasswordLength  = 6
)

// PasswordResetService issues and consumes single-use password reset tokens.
type PasswordResetService struct{}

// GenerateToken returns 32 random bytes as 64 hex characters.
func (s *PasswordResetService) GenerateToken() (string, error) {
	return random.Hex(ResetTokenBytes)
}

// Create replaces every token of the user with a fresh one valid for 24 hours.
func (s *PasswordResetService) Create(userID string) (string, error) {
	token, err := s.GenerateToken()
	if err != nil {
		return "", err
	}
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.PasswordResetToken{}).Error; err != nil {
			return err
		}
		return tx.Create(&model.PasswordResetToken{
			Token:   token,
			UserId:  userID,
			Expires: time.Now().Add(ResetTokenLifetime),
		}).Error
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// Validate looks the token up and returns it with its user preloaded.
func (s *PasswordResetService) Validate(token string) (*model.PasswordResetToken, error) {
	record := &model.PasswordResetToken{}
	err := database.GetDB().Preload("User").Where("token = ?", token).First(record).Error
	if database.IsNotFound(err) {
		return nil, ErrTokenNotFound
	} else if err != nil {
		return nil, err
	}
	if record.Used {
		return nil, ErrTokenUsed
	}
	if record.IsExpired(time.Now()) {
		return nil, ErrTokenExpired
	}
	return record, nil
}

func (s *PasswordResetService) MarkUsed(tokenID string) error {
	return database.GetDB().Model(&model.PasswordResetToken{}).
		Where("id = ?", tokenID).
		Update("used", true).
		Error
}

// ResetURL builds the link that is e-mailed to the user.
func (s *PasswordResetService) ResetURL(token string) string {
	return config.GetBaseURL() + ResetPasswordPath + "?token=" + url.QueryEscape(token)
}

// ResetPassword sets a new password for the owner of token. The token is
// consumed in the same transaction, so a replayed token fails with ErrTokenUsed.
func (s *PasswordResetService) ResetPassword(token, password, confirmation string) error {
	if password != confirmation {
		return ErrPasswordMismatch
	}
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	record, err := s.Validate(token)
	if err != nil {
		return err
	}
	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return err
	}

	return database.GetDB().Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.PasswordResetToken{}).
			Where("id = ? AND used = ?", record.Id, false).
			Update("used", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTokenUsed
		}
		res = tx.Model(&model.User{}).Where("id = ?", record.UserId).Update("password", hash)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		logger.Infof("password reset for %s", record.User.Email)
		return nil
	})
}

// CleanExpired deletes used and expired tokens.
func (s *PasswordResetService) CleanExpired() (int64, error) {
	res := database.GetDB().
		Where("used = ? OR expires < ?", true, time.Now()).
		Delete(&model.PasswordResetToken{})
	return res.RowsAffected, res.Error
}
