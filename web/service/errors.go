package service

import (
	"errors"
	"strings"
)

var (
	ErrUserNotFound     = errors.New("Benutzer nicht gefunden")
	ErrEmailTaken       = errors.New("Benutzer mit dieser E-Mail oder diesem Benutzernamen existiert bereits")
	ErrPasswordMismatch = errors.New("Passwörter stimmen nicht überein")
	ErrPasswordTooShort = errors.New("Das Passwort muss mindestens 6 Zeichen lang sein")
	ErrInvalidRole      = errors.New("Ungültige Rolle")

	ErrTokenNotFound = errors.New("Token nicht gefunden")
	ErrTokenUsed     = errors.New("Token wurde bereits verwendet")
	ErrTokenExpired  = errors.New("Token ist abgelaufen")

	ErrMailSend = errors.New("Fehler beim Senden der E-Mail")

	ErrOrderNotFound = errors.New("Bestellung nicht gefunden")

	ErrInvalidTwoFactorCode = errors.New("Ungültiger Code")
	ErrTwoFactorEnabled     = errors.New("Zwei-Faktor-Authentifizierung ist bereits aktiv")
	ErrTwoFactorDisabled    = errors.New("Zwei-Faktor-Authentifizierung ist nicht aktiv")
)

// ValidationError collects the per-field messages of a rejected input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, field := range sortedKeys(e.Fields) {
		msgs = append(msgs, e.Fields[field])
	}
	return strings.Join(msgs, ", ")
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
