package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DatabaseType represents the type of database
type DatabaseType string

const (
	DatabaseTypeSQLite     DatabaseType = "sqlite"
	DatabaseTypePostgreSQL DatabaseType = "postgres"
)

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Type DatabaseType `json:"type"`
	// URL is a postgres connection string, or a sqlite path with an optional "file:" prefix.
	URL string `json:"url"`
}

// GetDatabaseConfig builds the database configuration from DATABASE_TYPE and
// DATABASE_URL. The type is inferred from the URL scheme when unset.
func GetDatabaseConfig() *DatabaseConfig {
	c := &DatabaseConfig{
		Type: DatabaseType(strings.ToLower(os.Getenv("DATABASE_TYPE"))),
		URL:  os.Getenv("DATABASE_URL"),
	}
	if c.Type == "" {
		if strings.HasPrefix(c.URL, "postgres://") || strings.HasPrefix(c.URL, "postgresql://") {
			c.Type = DatabaseTypePostgreSQL
		} else {
			c.Type = DatabaseTypeSQLite
		}
	}
	if c.Type == "postgresql" {
		c.Type = DatabaseTypePostgreSQL
	}
	if c.Type == DatabaseTypeSQLite && c.URL == "" {
		c.URL = GetDBPath()
	}
	return c
}

// GetDSN returns the data source name for the database
func (c *DatabaseConfig) GetDSN() string {
	switch c.Type {
	case DatabaseTypeSQLite:
		return strings.TrimPrefix(c.URL, "file:")
	default:
		return c.URL
	}
}

// ValidateConfig validates the database configuration
func (c *DatabaseConfig) ValidateConfig() error {
	switch c.Type {
	case DatabaseTypeSQLite:
		if c.GetDSN() == "" {
			return fmt.Errorf("SQLite path cannot be empty")
		}
	case DatabaseTypePostgreSQL:
		if c.URL == "" {
			return fmt.Errorf("PostgreSQL connection url cannot be empty")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Type)
	}
	return nil
}

// IsPostgreSQL returns true if the database type is PostgreSQL
func (c *DatabaseConfig) IsPostgreSQL() bool {
	return c.Type == DatabaseTypePostgreSQL
}

// IsSQLite returns true if the database type is SQLite
func (c *DatabaseConfig) IsSQLite() bool {
	return c.Type == DatabaseTypeSQLite
}

// EnsureDirectoryExists ensures the directory for SQLite database exists
func (c *DatabaseConfig) EnsureDirectoryExists() error {
	if c.Type == DatabaseTypeSQLite {
		dir := filepath.Dir(c.GetDSN())
		return os.MkdirAll(dir, 0o755)
	}
	return nil
}
