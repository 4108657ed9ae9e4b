package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/next-levels/go-cms/database/model"
	"github.com/next-levels/go-cms/util/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, InitDB(dbPath))
	t.Cleanup(func() { _ = CloseDB() })
	return dbPath
}

func TestInitDBCreatesSQLiteFile(t *testing.T) {
	dbPath := setupDB(t)

	f, err := os.Open(dbPath)
	require.NoError(t, err)
	defer f.Close()

	ok, err := IsSQLiteDB(f)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSeedIsIdempotent(t *testing.T) {
	setupDB(t)

	created, err := Seed("example.local")
	require.NoError(t, err)
	assert.Len(t, created, 3)

	created, err = Seed("example.local")
	require.NoError(t, err)
	assert.Empty(t, created)

	var admin model.User
	require.NoError(t, GetDB().Where("email = ?", "admin@example.local").First(&admin).Error)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.NotEmpty(t, admin.Id)
	assert.NotNil(t, admin.EmailVerified)
	assert.True(t, crypto.CheckPasswordHash(admin.Password, "admin123"))
}

func TestIsNotFound(t *testing.T) {
	setupDB(t)

	var u model.User
	err := GetDB().Where("email = ?", "missing@example.local").First(&u).Error
	assert.True(t, IsNotFound(err))
}
