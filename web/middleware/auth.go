package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/next-levels/go-cms/auth"
	"github.com/next-levels/go-cms/database/model"
	"github.com/next-levels/go-cms/logger"
	"github.com/next-levels/go-cms/web/entity"
	"github.com/next-levels/go-cms/web/locale"
	"github.com/next-levels/go-cms/web/session"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SessionMiddleware decodes the session token of the request, if any.
// Invalid or expired tokens are dropped from the cookie.
func SessionMiddleware(cfg *auth.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := session.GetToken(c)
		if token != "" {
			claims, err := cfg.ParseToken(token)
			if err != nil {
				if !errors.Is(err, jwt.ErrTokenExpired) {
					logger.Debug("rejecting session token:", err)
				}
				_ = session.ClearSession(c)
			} else {
				session.SetLoginSession(c, cfg.SessionFromClaims(claims))
			}
		}
		c.Next()
	}
}

// AuthRequired applies the authorized callback: anonymous requests outside
// /auth get 401 on the API and a redirect to the sign-in page otherwise.
func AuthRequired(cfg *auth.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Authorized(session.GetLoginSession(c), c.Request.URL.Path) {
			c.Next()
			return
		}
		if wantsJSON(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, entity.Msg{Msg: locale.I18n(c, "errors.unauthorized")})
			return
		}
		c.Redirect(http.StatusSeeOther, cfg.Pages.SignIn+"?callbackUrl="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// RoleRequired lets only users ranking at or above role pass.
func RoleRequired(role model.Role) gin.HandlerFunc {
	return guard(func(r model.Role) bool { return auth.HasRole(r, role) })
}

// PermissionRequired lets only roles holding permission pass.
func PermissionRequired(permission string) gin.HandlerFunc {
	return guard(func(r model.Role) bool { return auth.HasPermission(r, permission) })
}

func guard(allowed func(model.Role) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := session.GetLoginUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, entity.Msg{Msg: locale.I18n(c, "errors.unauthorized")})
			return
		}
		if !allowed(user.Role) {
			if wantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusForbidden, entity.Msg{Msg: locale.I18n(c, "errors.forbidden")})
			} else {
				c.Redirect(http.StatusSeeOther, "/")
				c.Abort()
			}
			return
		}
		c.Next()
	}
}

func wantsJSON(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/") ||
		c.GetHeader("X-Requested-With") == "XMLHttpRequest" ||
		strings.Contains(c.GetHeader("Accept"), "application/json")
}
