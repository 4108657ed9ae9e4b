package controller

import (
	"errors"
	"net/http"

	"github.com/next-levels/go-cms/database/model"
	"github.com/next-levels/go-cms/logger"
	"github.com/next-levels/go-cms/web/entity"
	"github.com/next-levels/go-cms/web/middleware"
	"github.com/next-levels/go-cms/web/service"
	"github.com/next-levels/go-cms/web/session"

	"github.com/gin-gonic/gin"
)

type forgotPasswordForm struct {
	Email string `json:"email" form:"email"`
}

type resetPasswordForm struct {
	Token                string `json:"token" form:"token"`
	Password             string `json:"password" form:"password"`
	PasswordConfirmation string `json:"passwordConfirmation" form:"passwordConfirmation"`
}

type roleForm struct {
	Role string `json:"role" form:"role"`
}

type twoFactorForm struct {
	Secret string `json:"secret" form:"secret"`
	Code   string `json:"code" form:"code"`
}

// UserController is the user API. Listing all users needs ADMIN, managing
// them SUPERADMIN; the password recovery endpoints are public.
type UserController struct {
	BaseController

	userService  service.UserService
	resetService service.PasswordResetService
}

func NewUserController(g *gin.RouterGroup) *UserController {
	a := &UserController{}
	a.initRouter(g)
	return a
}

func (a *UserController) initRouter(g *gin.RouterGroup) {
	limiter := middleware.RateLimitMiddleware(middleware.DefaultRateLimitConfig())
	g.POST("/forgotPassword", limiter, a.forgotPassword)
	g.POST("/resetPassword", limiter, a.resetPassword)

	authed := g.Group("")
	authed.Use(a.checkLogin)
	authed.GET("/me", a.me)
	authed.POST("/2fa/setup", a.twoFactorSetup)
	authed.POST("/2fa/enable", a.twoFactorEnable)
	authed.POST("/2fa/disable", a.twoFactorDisable)

	authed.GET("/list", middleware.RoleRequired(model.RoleAdmin), a.fetchAll)

	super := authed.Group("", middleware.RoleRequired(model.RoleSuperAdmin))
	super.GET("/page", a.fetchPaginated)
	super.GET("/get/:id", a.fetchById)
	super.POST("/add", a.create)
	super.POST("/update/:id", a.update)
	super.POST("/del/:id", a.delete)
	super.POST("/role/:id", a.updateRole)
}

// me returns the signed-in user, or null when the account is gone.
func (a *UserController) me(c *gin.Context) {
	user, err := a.userService.GetUser(session.GetLoginUser(c).ID)
	if errors.Is(err, service.ErrUserNotFound) {
		jsonObj(c, nil, nil)
		return
	}
	jsonObj(c, user, err)
}

func (a *UserController) forgotPassword(c *gin.Context) {
	var form forgotPasswordForm
	if err := c.ShouldBind(&form); err != nil || form.Email == "" {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "errors.invalidForm"))
		return
	}
	err := a.userService.ForgotPassword(c.Request.Context(), form.Email)
	jsonMsg(c, I18nWeb(c, "pages.forgot.sent"), err)
}

func (a *UserController) resetPassword(c *gin.Context) {
	var form resetPasswordForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "errors.invalidForm"))
		return
	}
	err := a.resetService.ResetPassword(form.Token, form.Password, form.PasswordConfirmation)
	jsonMsg(c, I18nWeb(c, "pages.reset.success"), err)
}

func (a *UserController) fetchAll(c *gin.Context) {
	users, err := a.userService.ListAll()
	if users == nil {
		users = []model.User{}
	}
	jsonObj(c, users, err)
}

func (a *UserController) fetchPaginated(c *gin.Context) {
	users, p, err := a.userService.ListPaginated(bindPageQuery(c))
	if err != nil {
		jsonObj(c, nil, err)
		return
	}
	jsonObj(c, entity.NewPaginated(users, p), nil)
}

// fetchById answers null for an unknown id.
func (a *UserController) fetchById(c *gin.Context) {
	user, err := a.userService.GetUser(c.Param("id"))
	if errors.Is(err, service.ErrUserNotFound) {
		jsonObj(c, nil, nil)
		return
	}
	jsonObj(c, user, err)
}

func (a *UserController) create(c *gin.Context) {
	var in service.UserInput
	if err := c.ShouldBind(&in); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "errors.invalidForm"))
		return
	}
	user, err := a.userService.Create(in)
	if err == nil {
		logger.Infof("%s created user %s", session.GetLoginUser(c).Email, user.Email)
	}
	jsonMsgObj(c, I18nWeb(c, "pages.users.created"), user, err)
}

func (a *UserController) update(c *gin.Context) {
	var in service.UserUpdateInput
	if err := c.ShouldBind(&in); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "errors.invalidForm"))
		return
	}
	user, err := a.userService.Update(c.Param("id"), in)
	jsonMsgObj(c, I18nWeb(c, "pages.users.updated"), user, err)
}

func (a *UserController) delete(c *gin.Context) {
	user, err := a.userService.Delete(c.Param("id"))
	jsonMsgObj(c, I18nWeb(c, "pages.users.deleted"), user, err)
}

func (a *UserController) updateRole(c *gin.Context) {
	var form roleForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "errors.invalidForm"))
		return
	}
	user, err := a.userService.UpdateRole(c.Param("id"), form.Role)
	jsonMsgObj(c, I18nWeb(c, "pages.users.updated"), user, err)
}

func (a *UserController) twoFactorSetup(c *gin.Context) {
	setup, err := a.userService.NewTwoFactorSetup(session.GetLoginUser(c).ID)
	jsonObj(c, setup, err)
}

func (a *UserController) twoFactorEnable(c *gin.Context) {
	var form twoFactorForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "errors.invalidForm"))
		return
	}
	err := a.userService.EnableTwoFactor(session.GetLoginUser(c).ID, form.Secret, form.Code)
	jsonMsg(c, "", err)
}

func (a *UserController) twoFactorDisable(c *gin.Context) {
	var form twoFactorForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "errors.invalidForm"))
		return
	}
	err := a.userService.DisableTwoFactor(session.GetLoginUser(c).ID, form.Code)
	jsonMsg(c, "", err)
}
