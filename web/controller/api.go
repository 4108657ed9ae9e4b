package controller

import (
	"github.com/gin-gonic/gin"
)

// APIController mounts the JSON API under /api. Each sub-controller guards
// its own routes, so the recovery endpoints can stay public.
type APIController struct {
	BaseController

	userController   *UserController
	orderController  *OrderController
	serverController *ServerController
}

func NewAPIController(g *gin.RouterGroup) *APIController {
	a := &APIController{}
	a.initRouter(g)
	return a
}

func (a *APIController) initRouter(g *gin.RouterGroup) {
	api := g.Group("/api")

	a.userController = NewUserController(api.Group("/users"))
	a.orderController = NewOrderController(api.Group("/orders"))
	a.serverController = NewServerController(api)
}
