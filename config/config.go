// Package config reads the panel configuration from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

// LoadEnv loads the given .env files (".env" when none are given) into the
// process environment. Variables that are already set win. Missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("CMS_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("CMS_DEBUG") == "true"
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("CMS_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "db"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("CMS_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "logs"
	}
	return logFolderPath
}

func GetListen() string {
	return os.Getenv("CMS_LISTEN")
}

func GetPort() int {
	return getInt("CMS_PORT", 3000)
}

// GetDomain restricts the panel to one host name when set.
func GetDomain() string {
	return os.Getenv("CMS_DOMAIN")
}

func GetCertFile() string {
	return os.Getenv("CMS_CERT_FILE")
}

func GetKeyFile() string {
	return os.Getenv("CMS_KEY_FILE")
}

// GetAuthSecret returns the HMAC secret used to sign session tokens.
func GetAuthSecret() string {
	return os.Getenv("AUTH_SECRET")
}

// GetTrustedProxies lists the proxies whose X-Forwarded-For header is
// believed. Empty means the peer address is always the client.
func GetTrustedProxies() []string {
	var proxies []string
	for _, p := range strings.Split(os.Getenv("CMS_TRUSTED_PROXIES"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			proxies = append(proxies, p)
		}
	}
	return proxies
}

// GetBaseURL is the public URL of the panel, used in links sent by e-mail.
func GetBaseURL() string {
	baseURL := os.Getenv("AUTH_URL")
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%d", GetPort())
	}
	return strings.TrimRight(baseURL, "/")
}

func GetSeedDomain() string {
	domain := os.Getenv("CMS_SEED_DOMAIN")
	if domain == "" {
		domain = "template.de"
	}
	return domain
}

func GetTokenCleanupCron() string {
	spec := os.Getenv("CMS_TOKEN_CLEANUP_CRON")
	if spec == "" {
		spec = "@hourly"
	}
	return spec
}

func GetAuditRetentionDays() int {
	return getInt("CMS_AUDIT_RETENTION_DAYS", 90)
}

// GetCpuAlert is the CPU usage in percent above which admins are alerted; 0 disables it.
func GetCpuAlert() int {
	return getInt("CMS_CPU_ALERT", 0)
}

func GetMemAlert() int {
	return getInt("CMS_MEM_ALERT", 0)
}

// TelegramConfig holds the optional order notification targets.
type TelegramConfig struct {
	Token   string
	ChatIDs []int64
}

func (c TelegramConfig) Enabled() bool {
	return c.Token != "" && len(c.ChatIDs) > 0
}

// GetTelegramConfig reads TG_CHAT_ID as a comma separated list; invalid ids are skipped.
func GetTelegramConfig() TelegramConfig {
	var ids []int64
	for _, raw := range strings.Split(os.Getenv("TG_CHAT_ID"), ",") {
		if id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil && id != 0 {
			ids = append(ids, id)
		}
	}
	return TelegramConfig{
		Token:   os.Getenv("TG_BOT_TOKEN"),
		ChatIDs: ids,
	}
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
