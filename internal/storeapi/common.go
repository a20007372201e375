// Package storeapi exposes the shopper-facing REST API: account signup and
// sessions, the public product catalog with filtering and comparison,
// favorites, and self-reported purchases with savings statistics.
package storeapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rindelabs/rindestore/internal/webserver"
)

// Init registers all storefront routes.
func Init() {
	registerAuthRoutes()
	registerCatalogRoutes()
	registerFavoriteRoutes()
	registerPurchaseRoutes()
}

type restResult struct {
	Code string      `json:"code"`
	Msg  string      `json:"msg,omitempty"`
	Data interface{} `json:"data,omitempty"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, restResult{Code: "OK", Data: data})
}

func fail(c echo.Context, status int, code, msg string, data interface{}) error {
	return c.JSON(status, restResult{Code: code, Msg: msg, Data: data})
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func handleValidationError(c echo.Context, err error) error {
	return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
}

// GetDB fetches the request-scoped database handle.
var GetDB = webserver.GetDB
