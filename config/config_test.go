package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDatabaseConfig(t *testing.T) {
	tests := []struct {
		name     string
		dbType   string
		url      string
		wantType DatabaseType
		wantDSN  string
	}{
		{"sqlite file url", "", "file:./demo.db", DatabaseTypeSQLite, "./demo.db"},
		{"postgres inferred", "", "postgresql://u:p@localhost:5432/demo", DatabaseTypePostgreSQL, "postgresql://u:p@localhost:5432/demo"},
		{"postgresql alias", "postgresql", "host=localhost", DatabaseTypePostgreSQL, "host=localhost"},
		{"explicit sqlite", "sqlite", "data/x.db", DatabaseTypeSQLite, "data/x.db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_TYPE", tt.dbType)
			t.Setenv("DATABASE_URL", tt.url)
			c := GetDatabaseConfig()
			assert.Equal(t, tt.wantType, c.Type)
			assert.Equal(t, tt.wantDSN, c.GetDSN())
			assert.NoError(t, c.ValidateConfig())
		})
	}
}

func TestGetDatabaseConfigDefaultsToSQLitePath(t *testing.T) {
	t.Setenv("DATABASE_TYPE", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CMS_DB_FOLDER", "/tmp/cms")
	c := GetDatabaseConfig()
	assert.True(t, c.IsSQLite())
	assert.Equal(t, "/tmp/cms/go-cms.db", c.GetDSN())
}

func TestValidateConfigRejectsUnknownType(t *testing.T) {
	c := &DatabaseConfig{Type: "oracle", URL: "x"}
	assert.Error(t, c.ValidateConfig())
}

func TestLoadEnvKeepsExistingValues(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("CMS_PORT=4000\nSMTP_HOST=mail.example.org\n"), 0o644))

	t.Setenv("CMS_PORT", "5000")
	t.Setenv("SMTP_HOST", "")
	os.Unsetenv("SMTP_HOST")

	require.NoError(t, LoadEnv(envFile))
	assert.Equal(t, 5000, GetPort())
	assert.Equal(t, "mail.example.org", GetMailConfig().Host)
}

func TestLoadEnvIgnoresMissingFile(t *testing.T) {
	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "nope.env")))
}

func TestGetBaseURLTrimsSlash(t *testing.T) {
	t.Setenv("AUTH_URL", "https://cms.example.org/")
	assert.Equal(t, "https://cms.example.org", GetBaseURL())
}

func TestTelegramConfigEnabled(t *testing.T) {
	t.Setenv("TG_BOT_TOKEN", "abc")
	t.Setenv("TG_CHAT_ID", "42, -100123,bad")
	c := GetTelegramConfig()
	assert.True(t, c.Enabled())
	assert.Equal(t, []int64{42, -100123}, c.ChatIDs)

	t.Setenv("TG_CHAT_ID", "oops")
	assert.False(t, GetTelegramConfig().Enabled())
}

func TestGetTrustedProxies(t *testing.T) {
	t.Setenv("CMS_TRUSTED_PROXIES", "")
	assert.Nil(t, GetTrustedProxies())

	t.Setenv("CMS_TRUSTED_PROXIES", " 10.0.0.1, 192.168.0.0/16,,")
	assert.Equal(t, []string{"10.0.0.1", "192.168.0.0/16"}, GetTrustedProxies())
}
