package service

import (
	"testing"
	"time"

	"github.com/next-levels/go-cms/database"
	"github.com/next-levels/go-cms/database/model"
	"github.com/next-levels/go-cms/util/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T, email string) *model.User {
	t.Helper()
	s := UserService{}
	u, err := s.CreateWithRole("Test User", email, "secret123", model.RoleUser)
	require.NoError(t, err)
	return u
}

func TestGenerateToken(t *testing.T) {
	s := PasswordResetService{}
	a, err := s.GenerateToken()
	require.NoError(t, err)
	b, err := s.GenerateToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.Regexp(t, "^[0-9a-f]{64}$", a)
	assert.NotEqual(t, a, b)
}

func TestCreateReplacesPreviousTokens(t *testing.T) {
	setup(t)
	s := PasswordResetService{}
	u := createTestUser(t, "reset@example.local")

	first, err := s.Create(u.Id)
	require.NoError(t, err)
	second, err := s.Create(u.Id)
	require.NoError(t, err)

	var count int64
	database.GetDB().Model(&model.PasswordResetToken{}).Where("user_id = ?", u.Id).Count(&count)
	assert.EqualValues(t, 1, count)

	_, err = s.Validate(first)
	assert.ErrorIs(t, err, ErrTokenNotFound)

	rec, err := s.Validate(second)
	require.NoError(t, err)
	assert.Equal(t, u.Email, rec.User.Email)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), rec.Expires, time.Minute)
}

func TestValidateRejectsUsedAndExpired(t *testing.T) {
	setup(t)
	s := PasswordResetService{}
	u := createTestUser(t, "expired@example.local")

	token, err := s.Create(u.Id)
	require.NoError(t, err)
	rec, err := s.Validate(token)
	require.NoError(t, err)

	require.NoError(t, s.MarkUsed(rec.Id))
	_, err = s.Validate(token)
	assert.ErrorIs(t, err, ErrTokenUsed)
	assert.EqualError(t, err, "Token wurde bereits verwendet")

	token, err = s.Create(u.Id)
	require.NoError(t, err)
	database.GetDB().Model(&model.PasswordResetToken{}).
		Where("token = ?", token).
		Update("expires", time.Now().Add(-time.Minute))
	_, err = s.Validate(token)
	assert.EqualError(t, err, "Token ist abgelaufen")
}

func TestResetURL(t *testing.T) {
	t.Setenv("AUTH_URL", "https://cms.example.local/")
	s := PasswordResetService{}
	assert.Equal(t, "https://cms.example.local/auth/reset-password?token=abc", s.ResetURL("abc"))
}

func TestResetPasswordIsSingleUse(t *testing.T) {
	setup(t)
	s := PasswordResetService{}
	u := createTestUser(t, "single@example.local")

	token, err := s.Create(u.Id)
	require.NoError(t, err)

	assert.ErrorIs(t, s.ResetPassword(token, "newpass1", "newpass2"), ErrPasswordMismatch)
	assert.ErrorIs(t, s.ResetPassword(token, "short", "short"), ErrPasswordTooShort)
	assert.ErrorIs(t, s.ResetPassword("unknown", "newpass1", "newpass1"), ErrTokenNotFound)

	require.NoError(t, s.ResetPassword(token, "newpass1", "newpass1"))

	stored := &model.User{}
	require.NoError(t, database.GetDB().Where("id = ?", u.Id).First(stored).Error)
	assert.True(t, crypto.CheckPasswordHash(stored.Password, "newpass1"))

	assert.ErrorIs(t, s.ResetPassword(token, "another1", "another1"), ErrTokenUsed)
	require.NoError(t, database.GetDB().Where("id = ?", u.Id).First(stored).Error)
	assert.True(t, crypto.CheckPasswordHash(stored.Password, "newpass1"))
}

func TestCleanExpired(t *testing.T) {
	setup(t)
	s := PasswordResetService{}
	a := createTestUser(t, "a@example.local")
	b := createTestUser(t, "b@example.local")
	c := createTestUser(t, "c@example.local")

	used, _ := s.Create(a.Id)
	expired, _ := s.Create(b.Id)
	_, err := s.Create(c.Id)
	require.NoError(t, err)

	db := database.GetDB()
	db.Model(&model.PasswordResetToken{}).Where("token = ?", used).Update("used", true)
	db.Model(&model.PasswordResetToken{}).Where("token = ?", expired).Update("expires", time.Now().Add(-time.Hour))

	n, err := s.CleanExpired()
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	var left int64
	db.Model(&model.PasswordResetToken{}).Count(&left)
	assert.EqualValues(t, 1, left)
}
