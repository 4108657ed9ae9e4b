package config

import (
	"os"
)

const defaultMailFrom = `"Greenchild" <noreply@greenchild.de>`

// MailConfig holds the SMTP settings used for outgoing mail.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// HasAuth reports whether SMTP authentication should be used.
func (c MailConfig) HasAuth() bool {
	return c.Username != "" && c.Password != ""
}

func GetMailConfig() MailConfig {
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = defaultMailFrom
	}
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "localhost"
	}
	return MailConfig{
		Host:     host,
		Port:     getInt("SMTP_PORT", 587),
		Username: os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASS"),
		From:     from,
	}
}
