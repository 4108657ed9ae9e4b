package middleware

import (
	"net/http"
	"strings"

	"github.com/next-levels/go-cms/database/model"
	"github.com/next-levels/go-cms/logger"
	"github.com/next-levels/go-cms/web/service"
	"github.com/next-levels/go-cms/web/session"

	"github.com/gin-gonic/gin"
)

// AuditMiddleware records every mutating request of a signed-in user.
func AuditMiddleware() gin.HandlerFunc {
	auditService := service.AuditLogService{}

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}
		user := session.GetLoginUser(c)
		c.Next()
		if user == nil {
			// sign-in sets the session during the request
			user = session.GetLoginUser(c)
		}
		if user == nil {
			return
		}

		action, resource := extractActionFromPath(c.Request.Method, c.FullPath())
		entry := model.AuditLog{
			UserID:     user.ID,
			Email:      user.Email,
			Action:     action,
			Resource:   resource,
			ResourceID: c.Param("id"),
			IP:         c.ClientIP(),
			UserAgent:  c.GetHeader("User-Agent"),
		}
		details := map[string]any{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		}
		if err := auditService.LogAction(entry, details); err != nil {
			logger.Warning("Failed to log audit action:", err)
		}
	}
}

// extractActionFromPath derives action and resource from a route like
// /api/users/update/:id or /admin/users/:id/delete.
func extractActionFromPath(method, route string) (action, resource string) {
	parts := strings.Split(strings.Trim(route, "/"), "/")
	if len(parts) > 0 && (parts[0] == "api" || parts[0] == "admin") {
		parts = parts[1:]
	}
	resource = "unknown"
	if len(parts) > 0 && parts[0] != "" {
		resource = strings.TrimSuffix(parts[0], "s")
	}

	verb, hasID := "", false
	for _, p := range parts[min(1, len(parts)):] {
		if strings.HasPrefix(p, ":") {
			hasID = true
			continue
		}
		verb = p
	}
	switch {
	case verb == "login":
		action = "LOGIN"
	case verb == "logout":
		action = "LOGOUT"
	case verb == "add" || verb == "new":
		action = "CREATE"
	case verb == "update" || verb == "role" || method == http.MethodPut || method == http.MethodPatch:
		action = "UPDATE"
	case verb == "del" || verb == "delete" || method == http.MethodDelete:
		action = "DELETE"
	case verb == "" && hasID && method == http.MethodPost:
		action = "UPDATE"
	default:
		action = method
	}
	return action, resource
}
