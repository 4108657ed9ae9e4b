// Package controller provides the HTTP handlers of the CMS: the public and
// sign-in pages, the admin panel and the JSON API.
package controller

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/next-levels/go-cms/web/locale"
	"github.com/next-levels/go-cms/web/session"

	"github.com/gin-gonic/gin"
)

// BaseController provides common functionality for all controllers, including authentication checks.
type BaseController struct{}

// checkLogin aborts requests without a session.
func (a *BaseController) checkLogin(c *gin.Context) {
	if !session.IsLogin(c) {
		if isAjax(c) || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			pureJsonMsg(c, http.StatusUnauthorized, false, I18nWeb(c, "pages.login.loginAgain"))
		} else {
			c.Redirect(http.StatusSeeOther, "/auth/login?callbackUrl="+url.QueryEscape(c.Request.URL.RequestURI()))
		}
		c.Abort()
	} else {
		c.Next()
	}
}

// I18nWeb retrieves an internationalized message for the web interface based on the current locale.
func I18nWeb(c *gin.Context, name string, params ...string) string {
	return locale.I18n(c, name, params...)
}
