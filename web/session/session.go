// Package session keeps the signed session token in the gin-contrib/sessions
// cookie and exposes the decoded session to handlers.
package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/next-levels/go-cms/auth"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	CookieName = "go-cms"

	tokenKey   = "SESSION_TOKEN"
	contextKey = "auth_session"
)

func options(maxAge int) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// SetToken stores the signed token in the cookie session.
func SetToken(c *gin.Context, token string, maxAge time.Duration) error {
	s := sessions.Default(c)
	s.Options(options(int(maxAge.Seconds())))
	s.Set(tokenKey, token)
	return s.Save()
}

// GetToken returns the token of the cookie session, falling back to a bearer token.
func GetToken(c *gin.Context) string {
	if v, ok := sessions.Default(c).Get(tokenKey).(string); ok && v != "" {
		return v
	}
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(options(-1))
	return s.Save()
}

// SetLoginSession attaches the decoded session to the request.
func SetLoginSession(c *gin.Context, sess *auth.Session) {
	c.Set(contextKey, sess)
}

func GetLoginSession(c *gin.Context) *auth.Session {
	if v, ok := c.Get(contextKey); ok {
		if sess, ok := v.(*auth.Session); ok {
			return sess
		}
	}
	return nil
}

// GetLoginUser returns the signed-in user, or nil.
func GetLoginUser(c *gin.Context) *auth.SessionUser {
	if sess := GetLoginSession(c); sess != nil {
		return &sess.User
	}
	return nil
}

func IsLogin(c *gin.Context) bool {
	return GetLoginSession(c) != nil
}
