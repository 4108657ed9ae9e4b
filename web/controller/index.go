package controller

import (
	"errors"
	"net/http"

	"github.com/next-levels/go-cms/auth"
	"github.com/next-levels/go-cms/logger"
	"github.com/next-levels/go-cms/web/middleware"
	"github.com/next-levels/go-cms/web/session"

	"github.com/gin-gonic/gin"
)

// LoginForm is the credentials form plus the page to return to.
type LoginForm struct {
	auth.Credentials
	CallbackURL string `json:"callbackUrl" form:"callbackUrl"`
}

// IndexController serves the landing page and the sign-in pages under /auth.
type IndexController struct {
	BaseController

	authConfig *auth.Config
}

func NewIndexController(g *gin.RouterGroup, cfg *auth.Config) *IndexController {
	a := &IndexController{authConfig: cfg}
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.GET("/", a.index)

	authGroup := g.Group("/auth")
	authGroup.GET("/login", a.loginPage)
	authGroup.POST("/login", middleware.RateLimitMiddleware(middleware.DefaultRateLimitConfig()), a.login)
	authGroup.GET("/logout", a.logout)
	authGroup.POST("/logout", a.logout)
	authGroup.GET("/forgot-password", a.forgotPage)
	authGroup.GET("/reset-password", a.resetPage)
}

func (a *IndexController) index(c *gin.Context) {
	html(c, "landing.html", "landing.title", nil)
}

// loginPage sends signed-in users straight on.
func (a *IndexController) loginPage(c *gin.Context) {
	callback := safeRedirect(c.Query("callbackUrl"), "/admin")
	if session.IsLogin(c) {
		c.Redirect(http.StatusSeeOther, callback)
		return
	}
	html(c, "login.html", "pages.login.title", gin.H{"callbackUrl": callback})
}

func (a *IndexController) login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "errors.invalidForm"))
		return
	}

	token, sess, err := a.authConfig.SignIn(form.Credentials)
	if errors.Is(err, auth.ErrMissingCredentials) {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "pages.login.missingCredentials"))
		return
	} else if err != nil {
		jsonMsg(c, "", err)
		return
	}
	if sess == nil {
		logger.Warningf("wrong credentials for %q, IP: %q", form.Identifier, getRemoteIp(c))
		pureJsonMsg(c, http.StatusUnauthorized, false, I18nWeb(c, "pages.login.wrongCredentials"))
		return
	}

	if err := session.SetToken(c, token, a.authConfig.Session.MaxAge); err != nil {
		logger.Warning("Unable to save session:", err)
		jsonMsg(c, "", err)
		return
	}
	session.SetLoginSession(c, sess)
	logger.Infof("%s logged in successfully, IP: %s", sess.User.Email, getRemoteIp(c))

	jsonMsgObj(c, I18nWeb(c, "pages.login.success"), gin.H{
		"url":  safeRedirect(form.CallbackURL, "/admin"),
		"user": sess.User,
	}, nil)
}

func (a *IndexController) logout(c *gin.Context) {
	if user := session.GetLoginUser(c); user != nil {
		logger.Infof("%s logged out successfully", user.Email)
	}
	if err := session.ClearSession(c); err != nil {
		logger.Warning("Unable to save session after clearing:", err)
	}
	if isAjax(c) {
		jsonMsg(c, "", nil)
		return
	}
	c.Redirect(http.StatusSeeOther, a.authConfig.Pages.SignOut)
}

func (a *IndexController) forgotPage(c *gin.Context) {
	html(c, "forgot.html", "pages.forgot.title", nil)
}

func (a *IndexController) resetPage(c *gin.Context) {
	html(c, "reset.html", "pages.reset.title", gin.H{"token": c.Query("token")})
}
