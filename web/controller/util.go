package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/next-levels/go-cms/auth"
	"github.com/next-levels/go-cms/config"
	"github.com/next-levels/go-cms/logger"
	"github.com/next-levels/go-cms/web/entity"
	"github.com/next-levels/go-cms/web/service"
	"github.com/next-levels/go-cms/web/session"
	"github.com/next-levels/go-cms/web/ui"

	"github.com/gin-gonic/gin"
)

// getRemoteIp is the client address; forwarding headers count only when
// they come from a trusted proxy.
func getRemoteIp(c *gin.Context) string {
	return c.ClientIP()
}

// statusOf maps service errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case service.IsValidation(err),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrTokenNotFound),
		errors.Is(err, service.ErrTokenUsed),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrInvalidTwoFactorCode),
		errors.Is(err, service.ErrTwoFactorEnabled),
		errors.Is(err, service.ErrTwoFactorDisabled),
		errors.Is(err, auth.ErrMissingCredentials):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// jsonMsg sends a JSON response with a message and error status.
func jsonMsg(c *gin.Context, msg string, err error) {
	jsonMsgObj(c, msg, nil, err)
}

// jsonObj sends a JSON response with an object and error status.
func jsonObj(c *gin.Context, obj any, err error) {
	jsonMsgObj(c, "", obj, err)
}

// jsonMsgObj sends the envelope. Known service errors keep their message;
// anything else is logged and reported as an internal error.
func jsonMsgObj(c *gin.Context, msg string, obj any, err error) {
	if err == nil {
		c.JSON(http.StatusOK, entity.Msg{Success: true, Msg: msg, Obj: obj})
		return
	}
	status := statusOf(err)
	m := entity.Msg{Msg: err.Error()}
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		m.Obj = verr.Fields
	}
	if status == http.StatusInternalServerError {
		logger.Warning(c.Request.Method, c.FullPath(), I18nWeb(c, "fail")+":", err)
		if !errors.Is(err, service.ErrMailSend) {
			m.Msg = I18nWeb(c, "errors.internal")
		}
	}
	c.JSON(status, m)
}

// pureJsonMsg sends a pure JSON message response with custom status code.
func pureJsonMsg(c *gin.Context, statusCode int, success bool, msg string) {
	c.JSON(statusCode, entity.Msg{
		Success: success,
		Msg:     msg,
	})
}

// html renders a page with the layout data every template expects.
func html(c *gin.Context, name string, title string, data gin.H) {
	htmlStatus(c, http.StatusOK, name, title, data)
}

func htmlStatus(c *gin.Context, status int, name string, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["title"] = title
	data["request_uri"] = c.Request.RequestURI
	data["path"] = c.Request.URL.Path
	if user := session.GetLoginUser(c); user != nil {
		data["user"] = user
		data["nav"] = ui.MarkActive(ui.FilterNav(ui.AdminNav(), user.Role), c.Request.URL.Path)
	}
	c.HTML(status, name, getContext(c, data))
}

// getContext adds version and the request translator to the provided gin.H.
func getContext(c *gin.Context, h gin.H) gin.H {
	a := gin.H{
		"cur_ver":  config.GetVersion(),
		"app_name": config.GetName(),
		"t": func(key string, params ...string) string {
			return I18nWeb(c, key, params...)
		},
	}
	for key, value := range h {
		a[key] = value
	}
	return a
}

// isAjax checks if the request is an AJAX request.
func isAjax(c *gin.Context) bool {
	return c.GetHeader("X-Requested-With") == "XMLHttpRequest"
}

// bindPageQuery reads page, pageSize, sortBy and sortOrder from the query string.
func bindPageQuery(c *gin.Context) entity.PageQuery {
	q := entity.PageQuery{
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	q.Page, _ = strconv.Atoi(c.Query("page"))
	q.PageSize, _ = strconv.Atoi(c.Query("pageSize"))
	return q.Normalize()
}

// safeRedirect accepts only local paths as redirect targets.
func safeRedirect(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	return target
}
