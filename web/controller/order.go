package controller

import (
	"net/http"

	"github.com/next-levels/go-cms/auth"
	"github.com/next-levels/go-cms/database/model"
	"github.com/next-levels/go-cms/web/entity"
	"github.com/next-levels/go-cms/web/middleware"
	"github.com/next-levels/go-cms/web/service"
	"github.com/next-levels/go-cms/web/session"

	"github.com/gin-gonic/gin"
)

// OrderController is the tree order API, gated by role permissions.
type OrderController struct {
	BaseController

	orderService service.OrderService
}

func NewOrderController(g *gin.RouterGroup) *OrderController {
	a := &OrderController{}
	a.initRouter(g)
	return a
}

func (a *OrderController) initRouter(g *gin.RouterGroup) {
	g.Use(a.checkLogin)

	g.GET("/mine", middleware.PermissionRequired(auth.PermReadOwn), a.mine)
	g.GET("/page", middleware.PermissionRequired(auth.PermReadAll), a.page)
	g.GET("/get/:id", middleware.PermissionRequired(auth.PermReadAll), a.get)
	g.POST("/add", middleware.PermissionRequired(auth.PermCreate), a.add)
	g.POST("/del/:id", middleware.PermissionRequired(auth.PermDeleteAll), a.del)
}

func (a *OrderController) mine(c *gin.Context) {
	orders, err := a.orderService.MyOrders(session.GetLoginUser(c).ID)
	if orders == nil {
		orders = []model.Order{}
	}
	jsonObj(c, orders, err)
}

func (a *OrderController) page(c *gin.Context) {
	orders, p, err := a.orderService.ListOrders(bindPageQuery(c))
	if err != nil {
		jsonObj(c, nil, err)
		return
	}
	jsonObj(c, entity.NewPaginated(orders, p), nil)
}

func (a *OrderController) get(c *gin.Context) {
	order, err := a.orderService.GetOrder(c.Param("id"))
	jsonObj(c, order, err)
}

// add answers with the order and whether the buyer got the confirmation mail.
func (a *OrderController) add(c *gin.Context) {
	var in service.OrderInput
	if err := c.ShouldBind(&in); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "errors.invalidForm"))
		return
	}
	result, err := a.orderService.CreateOrder(c.Request.Context(), in)
	jsonMsgObj(c, I18nWeb(c, "pages.orders.created"), result, err)
}

func (a *OrderController) del(c *gin.Context) {
	err := a.orderService.DeleteOrder(c.Param("id"))
	jsonMsg(c, "", err)
}
