package adminapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rindelabs/rindestore/internal/domain"
	"github.com/rindelabs/rindestore/internal/webserver"
)

type settingPayload struct {
	Type  string `json:"type" validate:"required,max=64"`
	Name  string `json:"name" validate:"required,max=64"`
	Value string `json:"value" validate:"max=1024"`
}

// storeSettings is the decoded "store" settings section.
type storeSettings struct {
	Currency        string `mapstructure:"currency" json:"currency"`
	RecentDays      int64  `mapstructure:"recent_days" json:"recent_days"`
	LinkCheckEnable bool   `mapstructure:"link_check_enable" json:"link_check_enable"`
	ImageMaxMb      int64  `mapstructure:"image_max_mb" json:"image_max_mb"`
}

func registerSettingRoutes() {
	webserver.ApiGET("/store/settings", listSettings)
	webserver.ApiGET("/store/settings/store", getStoreSettings)
	webserver.ApiPUT("/store/settings", updateSetting)
}

func listSettings(c echo.Context) error {
	var rows []domain.SysConfig
	if err := GetDB(c).Order("sort ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query settings", err.Error())
	}
	return ok(c, rows)
}

func getStoreSettings(c echo.Context) error {
	var settings storeSettings
	if err := webserver.AppCtx().ConfigMgr().GetSection("store", &settings); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load settings", err.Error())
	}
	return ok(c, settings)
}

func updateSetting(c echo.Context) error {
	var payload settingPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse setting parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var exists int64
	GetDB(c).Model(&domain.SysConfig{}).
		Where("type = ? and name = ?", payload.Type, payload.Name).Count(&exists)
	if exists == 0 {
		return fail(c, http.StatusNotFound, "SETTING_NOT_FOUND", "Unknown setting", nil)
	}

	if err := webserver.AppCtx().ConfigMgr().Set(payload.Type, payload.Name, payload.Value); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update setting", err.Error())
	}

	audit(c, "setting.update", fmt.Sprintf("set %s.%s = %s", payload.Type, payload.Name, payload.Value))
	return ok(c, map[string]interface{}{"type": payload.Type, "name": payload.Name, "value": payload.Value})
}
