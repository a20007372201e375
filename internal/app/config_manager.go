package app

import (
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/rindelabs/rindestore/internal/domain"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// ConfigManager serves runtime settings from the sys_config table with an
// in-memory cache. Writes go through Set so the cache never goes stale.
type ConfigManager struct {
	app   *Application
	mu    sync.RWMutex
	cache map[string]string
}

func NewConfigManager(app *Application) *ConfigManager {
	cm := &ConfigManager{app: app, cache: make(map[string]string)}
	return cm
}

func (cm *ConfigManager) cacheKey(category, name string) string {
	return category + "." + name
}

func (cm *ConfigManager) getValue(category, name string) (string, bool) {
	cm.mu.RLock()
	v, hit := cm.cache[cm.cacheKey(category, name)]
	cm.mu.RUnlock()
	if hit {
		return v, true
	}

	var cfg domain.SysConfig
	err := cm.app.DB().Where("type = ? and name = ?", category, name).First(&cfg).Error
	if err != nil {
		return "", false
	}

	cm.mu.Lock()
	cm.cache[cm.cacheKey(category, name)] = cfg.Value
	cm.mu.Unlock()
	return cfg.Value, true
}

func (cm *ConfigManager) GetString(category, name string) string {
	v, _ := cm.getValue(category, name)
	return v
}

func (cm *ConfigManager) GetInt64(category, name string) int64 {
	v, ok := cm.getValue(category, name)
	if !ok {
		return 0
	}
	return cast.ToInt64(v)
}

func (cm *ConfigManager) GetBool(category, name string) bool {
	v, ok := cm.getValue(category, name)
	if !ok {
		return false
	}
	return cast.ToBool(v)
}

// Set persists a setting and refreshes the cache.
func (cm *ConfigManager) Set(category, name, value string) error {
	err := cm.app.DB().Model(&domain.SysConfig{}).
		Where("type = ? and name = ?", category, name).
		Update("value", value).Error
	if err != nil {
		return err
	}
	cm.mu.Lock()
	cm.cache[cm.cacheKey(category, name)] = value
	cm.mu.Unlock()
	return nil
}

// GetSection decodes every setting in a category into out, which should be a
// pointer to a struct with mapstructure tags matching the setting names.
func (cm *ConfigManager) GetSection(category string, out interface{}) error {
	var rows []domain.SysConfig
	if err := cm.app.DB().Where("type = ?", category).Find(&rows).Error; err != nil {
		return err
	}
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Name] = row.Value
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(values); err != nil {
		zap.L().Warn("settings decode failed", zap.String("category", category), zap.Error(err))
		return err
	}
	return nil
}
