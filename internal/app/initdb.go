package app

import (
	"errors"
	"strings"
	"time"

	"github.com/rindelabs/rindestore/internal/domain"
	"github.com/rindelabs/rindestore/pkg/common"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func (a *Application) checkSuper() {
	const superEmail = "admin@rindestore.local"
	const defaultPassword = "rindestore"

	hashed, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Error("failed to hash default admin password", zap.Error(err))
		return
	}

	var admin domain.SysUser
	err = a.gormDB.Where("email = ?", superEmail).First(&admin).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.SysUser{
			ID:        common.UUIDint64(),
			Name:      "administrator",
			Email:     superEmail,
			Password:  string(hashed),
			Level:     "admin",
			Status:    common.ENABLED,
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default admin account", zap.String("email", superEmail))
		}
		return
	case err != nil:
		zap.L().Error("failed to query default admin", zap.Error(err))
		return
	}

	resetLevel := !strings.EqualFold(admin.Level, "admin")
	resetStatus := !strings.EqualFold(admin.Status, common.ENABLED)
	if !resetLevel && !resetStatus {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if resetLevel {
		updates["level"] = "admin"
	}
	if resetStatus {
		updates["status"] = common.ENABLED
	}

	if err := a.gormDB.Model(&domain.SysUser{}).Where("id = ?", admin.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair default admin account", zap.Error(err))
		return
	}

	zap.L().Warn("repaired default admin account",
		zap.String("email", superEmail),
		zap.Bool("levelReset", resetLevel),
		zap.Bool("statusEnabled", resetStatus))
}

type settingSchema struct {
	Key         string
	Default     string
	Description string
}

// settingSchemas lists every recognized runtime setting with its default.
var settingSchemas = []settingSchema{
	{Key: "store.currency", Default: "MXN", Description: "Currency code used in exports"},
	{Key: "store.recent_days", Default: "7", Description: "Window in days for the dashboard recent-products count"},
	{Key: "store.link_check_enable", Default: "true", Description: "Allow on-demand affiliate link checks"},
	{Key: "store.image_max_mb", Default: "5", Description: "Maximum product image upload size in MB"},
	{Key: "mail.reset_enable", Default: "false", Description: "Send temporary passwords by mail on reset requests"},
}

func (a *Application) checkSettings() {
	// Iterate over all configuration definitions, checking and initializing missing entries
	for sortid, schema := range settingSchemas {
		// Parse key: "category.name" -> category, name
		parts := strings.SplitN(schema.Key, ".", 2)
		if len(parts) != 2 {
			zap.L().Warn("invalid config key format", zap.String("key", schema.Key))
			continue
		}

		category := parts[0]
		name := parts[1]

		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Count(&count)

		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				ID:     common.UUIDint64(),
				Sort:   sortid,
				Type:   category,
				Name:   name,
				Value:  schema.Default,
				Remark: schema.Description,
			})
			zap.L().Info("initialized config",
				zap.String("key", schema.Key),
				zap.String("default", schema.Default))
		}
	}
}

// checkCategories seeds the storefront's starter categories
func (a *Application) checkCategories() {
	defaultCategories := []domain.Category{
		{Name: "Limpieza", Icon: "🧼", Subcategories: []string{"Cocina", "Pisos", "Ropa"}},
		{Name: "Bebidas", Icon: "🥤", Subcategories: []string{"Agua", "Café"}},
		{Name: "Despensa", Icon: "🛒", Subcategories: []string{}},
		{Name: "Cuidado personal", Icon: "🧴", Subcategories: []string{}},
	}

	for _, cat := range defaultCategories {
		var count int64
		a.gormDB.Model(&domain.Category{}).Where("name = ?", cat.Name).Count(&count)
		if count == 0 {
			cat.ID = common.UUIDint64()
			cat.CreatedAt = time.Now()
			cat.UpdatedAt = time.Now()
			if err := a.gormDB.Create(&cat).Error; err != nil {
				zap.L().Error("failed to create default category", zap.String("name", cat.Name), zap.Error(err))
			} else {
				zap.L().Info("initialized default category", zap.String("name", cat.Name))
			}
		}
	}
}
