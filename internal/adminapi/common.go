// Package adminapi exposes the administrator panel REST API: product and
// category CRUD, dashboard statistics, and data exports. Every route is
// registered behind the admin-level JWT group.
package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rindelabs/rindestore/internal/app"
	"github.com/rindelabs/rindestore/internal/webserver"
)

// Init registers all admin panel routes.
func Init() {
	registerProductRoutes()
	registerCategoryRoutes()
	registerDashboardRoutes()
	registerExportRoutes()
	registerSettingRoutes()
}

type restResult struct {
	Code string      `json:"code"`
	Msg  string      `json:"msg,omitempty"`
	Data interface{} `json:"data,omitempty"`
}

type pagedResult struct {
	Code     string      `json:"code"`
	Data     interface{} `json:"data"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, restResult{Code: "OK", Data: data})
}

func fail(c echo.Context, status int, code, msg string, data interface{}) error {
	return c.JSON(status, restResult{Code: code, Msg: msg, Data: data})
}

func paged(c echo.Context, data interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, pagedResult{
		Code:     "OK",
		Data:     data,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func parsePagination(c echo.Context) (page, pageSize int) {
	page = 1
	pageSize = 20
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func handleValidationError(c echo.Context, err error) error {
	return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
}

// GetDB fetches the request-scoped database handle.
var GetDB = webserver.GetDB

// audit publishes an operation record for the current administrator.
func audit(c echo.Context, action, desc string) {
	claims := webserver.GetUserClaims(c)
	operator := ""
	if claims != nil {
		operator = claims.Email
	}
	webserver.AppCtx().Bus().Publish(app.TopicAdminOp, app.AuditEvent{
		Operator: operator,
		ClientIP: c.RealIP(),
		Action:   action,
		Desc:     desc,
	})
}
