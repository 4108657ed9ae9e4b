// Package auth holds the credential based sign-in configuration, the JWT
// session format and the role hierarchy used for authorization.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/next-levels/go-cms/database/model"
	"github.com/next-levels/go-cms/logger"
	"github.com/next-levels/go-cms/util/crypto"
)

const (
	StrategyJWT = "jwt"

	DefaultMaxAge = 30 * 24 * time.Hour
	LoginPage     = "/auth/login"
	authPrefix    = "/auth"
)

var (
	ErrMissingCredentials = errors.New("Fehlende Login-Daten")
	ErrMissingSecret      = errors.New("auth secret must not be empty")
)

// UserStore looks up users for the credentials provider.
type UserStore interface {
	FindUserByEmail(email string) (*model.User, error)
}

// UserStoreFunc adapts a function to UserStore.
type UserStoreFunc func(email string) (*model.User, error)

func (f UserStoreFunc) FindUserByEmail(email string) (*model.User, error) {
	return f(email)
}

type SessionOptions struct {
	Strategy string
	MaxAge   time.Duration
}

type Pages struct {
	SignIn  string
	SignOut string
	Error   string
}

type CredentialField struct {
	Label string
	Type  string
}

type CredentialsProvider struct {
	ID          string
	Name        string
	Credentials map[string]CredentialField
}

// Credentials is what the login form submits.
type Credentials struct {
	Identifier string `json:"identifier" form:"identifier"`
	Password   string `json:"password" form:"password"`
	Code       string `json:"code" form:"code"`
}

// SessionUser is the user as seen by the session layer.
type SessionUser struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

type Session struct {
	User    SessionUser `json:"user"`
	Expires time.Time   `json:"expires"`
}

type Config struct {
	TrustHost bool
	Session   SessionOptions
	Pages     Pages
	Providers []CredentialsProvider

	users  UserStore
	secret []byte
	now    func() time.Time
}

// NewConfig builds the sign-in configuration backed by users.
func NewConfig(users UserStore, secret string) (*Config, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Config{
		TrustHost: true,
		Session: SessionOptions{
			Strategy: StrategyJWT,
			MaxAge:   DefaultMaxAge,
		},
		Pages: Pages{
			SignIn:  LoginPage,
			SignOut: LoginPage,
			Error:   LoginPage,
		},
		Providers: []CredentialsProvider{{
			ID:   "credentials",
			Name: "Credentials",
			Credentials: map[string]CredentialField{
				"identifier": {Label: "E-Mail", Type: "email"},
				"password":   {Label: "Passwort", Type: "password"},
			},
		}},
		users:  users,
		secret: []byte(secret),
		now:    time.Now,
	}, nil
}

// SetClock replaces the time source, for tests.
func (c *Config) SetClock(now func() time.Time) {
	c.now = now
}

// Authorize checks the credentials. It returns an error only for an
// incomplete form; every other failure yields a nil user.
func (c *Config) Authorize(creds Credentials) (*SessionUser, error) {
	if strings.TrimSpace(creds.Identifier) == "" || creds.Password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := c.users.FindUserByEmail(strings.TrimSpace(creds.Identifier))
	if err != nil {
		logger.Warning("auth error: ", err)
		return nil, nil
	}
	if user == nil {
		return nil, nil
	}
	if !crypto.CheckPasswordHash(user.Password, creds.Password) {
		return nil, nil
	}
	if user.HasTwoFactor() && !VerifyTOTP(user.TwoFactorSecret, creds.Code, c.now()) {
		return nil, nil
	}

	return &SessionUser{
		ID:    user.Id,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}

// JWT copies the signed-in user into the token. Without a user the token is returned unchanged.
func (c *Config) JWT(token *Claims, user *SessionUser) *Claims {
	if user == nil {
		return token
	}
	next := *token
	next.UserID = user.ID
	next.Subject = user.ID
	next.Name = user.Name
	next.Email = user.Email
	next.Role = user.Role
	return &next
}

// SessionFromClaims projects token claims onto the session exposed to handlers.
func (c *Config) SessionFromClaims(claims *Claims) *Session {
	if claims == nil {
		return nil
	}
	return &Session{
		User: SessionUser{
			ID:    claims.UserID,
			Name:  claims.Name,
			Email: claims.Email,
			Role:  claims.Role,
		},
		Expires: claims.Expiry(),
	}
}

// Authorized denies anonymous access to everything outside /auth.
func (c *Config) Authorized(session *Session, path string) bool {
	if session == nil && !strings.HasPrefix(path, authPrefix) {
		return false
	}
	return true
}

// SignIn authorizes the credentials and issues a session token.
func (c *Config) SignIn(creds Credentials) (string, *Session, error) {
	user, err := c.Authorize(creds)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, nil
	}
	token, claims, err := c.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, c.SessionFromClaims(claims), nil
}
