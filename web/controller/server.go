package controller

import (
	"net/http"
	"strconv"

	"github.com/next-levels/go-cms/config"
	"github.com/next-levels/go-cms/database/model"
	"github.com/next-levels/go-cms/web/entity"
	"github.com/next-levels/go-cms/web/middleware"
	"github.com/next-levels/go-cms/web/service"

	"github.com/gin-gonic/gin"
)

// ServerController exposes host status, logs, the database backup, the
// dashboard figures and the audit trail.
type ServerController struct {
	BaseController

	serverService    *service.ServerService
	dashboardService service.DashboardService
	auditService     service.AuditLogService
}

func NewServerController(g *gin.RouterGroup) *ServerController {
	a := &ServerController{serverService: &service.ServerService{}}
	a.initRouter(g)
	return a
}

func (a *ServerController) initRouter(g *gin.RouterGroup) {
	admin := g.Group("", middleware.RoleRequired(model.RoleAdmin))
	admin.GET("/dashboard", a.dashboard)
	admin.GET("/server/status", a.status)

	super := g.Group("", middleware.RoleRequired(model.RoleSuperAdmin))
	super.POST("/server/logs/:count", a.getLogs)
	super.GET("/server/getDb", a.getDb)
	super.GET("/audit/page", a.auditLogs)
}

func (a *ServerController) status(c *gin.Context) {
	jsonObj(c, a.serverService.GetStatus(), nil)
}

func (a *ServerController) dashboard(c *gin.Context) {
	d, err := a.dashboardService.GetDashboard()
	jsonObj(c, d, err)
}

func (a *ServerController) getLogs(c *gin.Context) {
	count, err := strconv.Atoi(c.Param("count"))
	if err != nil || count <= 0 {
		count = 100
	}
	level := c.PostForm("level")
	jsonObj(c, a.serverService.GetLogs(count, level), nil)
}

// getDb sends the sqlite file as a download.
func (a *ServerController) getDb(c *gin.Context) {
	db, err := a.serverService.GetDb()
	if err != nil {
		jsonMsg(c, "", err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+config.GetName()+".db")
	c.Data(http.StatusOK, "application/octet-stream", db)
}

func (a *ServerController) auditLogs(c *gin.Context) {
	var filter service.AuditFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "errors.invalidForm"))
		return
	}
	logs, p, err := a.auditService.GetAuditLogs(filter, bindPageQuery(c))
	if err != nil {
		jsonObj(c, nil, err)
		return
	}
	jsonObj(c, entity.NewPaginated(logs, p), nil)
}
