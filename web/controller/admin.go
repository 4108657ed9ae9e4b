package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/next-levels/go-cms/auth"
	"github.com/next-levels/go-cms/database/model"
	"github.com/next-levels/go-cms/logger"
	"github.com/next-levels/go-cms/util/common"
	"github.com/next-levels/go-cms/web/entity"
	"github.com/next-levels/go-cms/web/middleware"
	"github.com/next-levels/go-cms/web/service"
	"github.com/next-levels/go-cms/web/session"
	"github.com/next-levels/go-cms/web/ui"

	"github.com/gin-gonic/gin"
)

var (
	userColumns = []ui.Column{
		{Key: "name", Title: "pages.users.name", Sortable: true},
		{Key: "email", Title: "pages.users.email", Sortable: true},
		{Key: "role", Title: "pages.users.role", Sortable: true},
		{Key: "createdAt", Title: "pages.users.createdAt", Sortable: true},
	}
	orderColumns = []ui.Column{
		{Key: "boughtAt", Title: "pages.orders.boughtAt", Sortable: true},
		{Key: "lastName", Title: "pages.orders.lastName", Sortable: true},
		{Key: "firstName", Title: "pages.orders.firstName"},
		{Key: "email", Title: "pages.orders.email", Sortable: true},
		{Key: "amount", Title: "pages.orders.amount", Sortable: true},
		{Key: "hectares", Title: "pages.orders.hectares"},
	}
)

// AdminController renders the admin panel. Every page needs a session;
// the sidebar only offers what the role may open.
type AdminController struct {
	BaseController

	userService      service.UserService
	orderService     service.OrderService
	dashboardService service.DashboardService
	serverService    service.ServerService
}

func NewAdminController(g *gin.RouterGroup) *AdminController {
	a := &AdminController{}
	a.initRouter(g)
	return a
}

func (a *AdminController) initRouter(g *gin.RouterGroup) {
	g.Use(a.checkLogin)
	g.GET("", a.dashboard)

	users := g.Group("/users", middleware.RoleRequired(model.RoleSuperAdmin))
	users.GET("", a.users)
	users.GET("/new", a.newUser)
	users.POST("/new", a.createUser)
	users.GET("/:id", a.editUser)
	users.POST("/:id", a.updateUser)
	users.POST("/:id/delete", a.deleteUser)

	orders := g.Group("/orders")
	orders.GET("", middleware.PermissionRequired(auth.PermReadAll), a.orders)
	orders.GET("/new", middleware.PermissionRequired(auth.PermCreate), a.newOrder)
	orders.POST("/new", middleware.PermissionRequired(auth.PermCreate), a.createOrder)

	g.GET("/logs", middleware.RoleRequired(model.RoleSuperAdmin), a.logs)
}

// dashboard shows the figures to admins and the own orders to everyone else.
func (a *AdminController) dashboard(c *gin.Context) {
	user := session.GetLoginUser(c)
	data := gin.H{}
	if auth.CanAccessAdmin(user.Role) {
		d, err := a.dashboardService.GetDashboard()
		if err != nil {
			logger.Warning("dashboard:", err)
		}
		data["dashboard"] = d
	} else {
		orders, err := a.orderService.MyOrders(user.ID)
		if err != nil {
			logger.Warning("own orders:", err)
		}
		data["orders"] = orders
	}
	html(c, "dashboard.html", "pages.dashboard.title", data)
}

func (a *AdminController) users(c *gin.Context) {
	q := bindPageQuery(c)
	users, p, err := a.userService.ListPaginated(q)
	if err != nil {
		a.fail(c, err)
		return
	}
	table := newTable(c, userColumns, q, p)
	html(c, "users.html", "pages.users.title", gin.H{
		"users":   users,
		"table":   table,
		"headers": table.Headers(*c.Request.URL),
		"actions": true,
		"flash":   flash(c),
	})
}

func (a *AdminController) newUser(c *gin.Context) {
	html(c, "form.html", "pages.users.new", gin.H{"form": ui.UserForm(nil)})
}

func (a *AdminController) createUser(c *gin.Context) {
	var in service.UserInput
	_ = c.ShouldBind(&in)
	if _, err := a.userService.Create(in); err != nil {
		form := ui.UserForm(nil).WithValues(map[string]string{"name": in.Name, "email": in.Email})
		a.formError(c, form, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/users?flash=pages.users.created")
}

func (a *AdminController) editUser(c *gin.Context) {
	user, err := a.userService.GetUser(c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	html(c, "form.html", "pages.users.edit", gin.H{"form": ui.UserForm(user)})
}

// updateUser saves the profile and, when it changed, the role.
func (a *AdminController) updateUser(c *gin.Context) {
	var in service.UserUpdateInput
	_ = c.ShouldBind(&in)
	role := c.PostForm("role")

	user, err := a.userService.Update(c.Param("id"), in)
	if err == nil && role != "" && model.Role(role) != user.Role {
		user, err = a.userService.UpdateRole(user.Id, role)
	}
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			a.fail(c, err)
			return
		}
		form := ui.UserForm(&model.User{Id: c.Param("id")}).WithValues(map[string]string{
			"name":  in.Name,
			"email": in.Email,
			"role":  role,
		})
		a.formError(c, form, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/users?flash=pages.users.updated")
}

func (a *AdminController) deleteUser(c *gin.Context) {
	if _, err := a.userService.Delete(c.Param("id")); err != nil {
		a.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/users?flash=pages.users.deleted")
}

func (a *AdminController) orders(c *gin.Context) {
	q := bindPageQuery(c)
	orders, p, err := a.orderService.ListOrders(q)
	if err != nil {
		a.fail(c, err)
		return
	}
	table := newTable(c, orderColumns, q, p)
	for _, o := range orders {
		table.Rows = append(table.Rows, []any{
			common.FormatDateDE(o.BoughtAt),
			o.LastName,
			o.FirstName,
			o.Email,
			common.FormatNumberDE(o.Amount),
			service.FormatHectares(service.CalculateHectares(o.Amount)),
		})
	}
	html(c, "orders.html", "pages.orders.title", gin.H{
		"table":   table,
		"headers": table.Headers(*c.Request.URL),
		"flash":   flash(c),
	})
}

func (a *AdminController) newOrder(c *gin.Context) {
	html(c, "form.html", "pages.orders.new", gin.H{"form": ui.OrderForm()})
}

// createOrder reports a failed confirmation mail on the list page; the
// order itself is stored either way.
func (a *AdminController) createOrder(c *gin.Context) {
	var in service.OrderInput
	_ = c.ShouldBind(&in)
	for _, p := range []**string{&in.Street, &in.HouseNumber, &in.Zip, &in.City, &in.Phone} {
		*p = blankToNil(*p)
	}

	result, err := a.orderService.CreateOrder(c.Request.Context(), in)
	if err != nil {
		form := ui.OrderForm().WithValues(map[string]string{
			"firstName":   in.FirstName,
			"lastName":    in.LastName,
			"email":       in.Email,
			"phone":       deref(in.Phone),
			"street":      deref(in.Street),
			"houseNumber": deref(in.HouseNumber),
			"zip":         deref(in.Zip),
			"city":        deref(in.City),
			"amount":      strconv.Itoa(in.Amount),
			"boughtAt":    ui.DateValue(in.BoughtAt),
		})
		a.formError(c, form, err)
		return
	}
	msg := "pages.orders.created"
	if !result.MailSent {
		msg = "pages.orders.mailFailed"
	}
	c.Redirect(http.StatusSeeOther, "/admin/orders?flash="+msg)
}

func (a *AdminController) logs(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", "100"))
	if err != nil {
		count = 100
	}
	level := c.DefaultQuery("level", "info")
	html(c, "logs.html", "pages.logs.title", gin.H{
		"logs":   a.serverService.GetLogs(count, level),
		"level":  level,
		"levels": []string{"debug", "info", "notice", "warning", "error"},
		"count":  count,
	})
}

// formError re-renders form with the messages of err next to the fields.
func (a *AdminController) formError(c *gin.Context, form ui.Form, err error) {
	fields := map[string]string{}
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		fields = verr.Fields
	case errors.Is(err, service.ErrPasswordMismatch), errors.Is(err, service.ErrPasswordTooShort):
		fields["passwordConfirmation"] = err.Error()
	case errors.Is(err, service.ErrEmailTaken):
		fields["email"] = err.Error()
	case errors.Is(err, service.ErrInvalidRole):
		fields["role"] = err.Error()
	default:
		form.Error = err.Error()
		if statusOf(err) == http.StatusInternalServerError {
			logger.Warning("admin form:", err)
			form.Error = I18nWeb(c, "errors.internal")
		}
	}
	htmlStatus(c, statusOf(err), "form.html", form.Title, gin.H{"form": form.WithErrors(fields)})
}

func (a *AdminController) fail(c *gin.Context, err error) {
	status := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Warning(c.Request.Method, c.Request.URL.Path, err)
		msg = I18nWeb(c, "errors.internal")
	}
	htmlStatus(c, status, "error.html", "errors.title", gin.H{"message": msg})
}

func newTable(c *gin.Context, columns []ui.Column, q entity.PageQuery, p entity.Pagination) ui.Table {
	t := ui.Table{
		Columns:    columns,
		Pagination: ui.NewPagination(p, *c.Request.URL),
	}
	if q.SortBy != "" && q.SortOrder != "" {
		t.Sort = ui.SortState{By: q.SortBy, Order: q.SortOrder}
	}
	return t
}

// flash is a translation key passed along a redirect.
func flash(c *gin.Context) string {
	key := c.Query("flash")
	if !strings.HasPrefix(key, "pages.") {
		return ""
	}
	return key
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
