package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Equal(t, "rindestore", cfg.System.Appid)
	assert.Equal(t, 1816, cfg.Web.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
}

func TestLoadConfigFromFile(t *testing.T) {
	cfile := filepath.Join(t.TempDir(), "rindestore.yml")
	content := `
system:
  appid: teststore
  workdir: /tmp/teststore
web:
  host: 127.0.0.1
  port: 9000
  secret: test-secret
database:
  type: postgres
  host: db.local
  port: 5433
  name: teststore
  user: store
`
	require.NoError(t, os.WriteFile(cfile, []byte(content), 0o644))

	cfg := LoadConfig(cfile)
	assert.Equal(t, "teststore", cfg.System.Appid)
	assert.Equal(t, 9000, cfg.Web.Port)
	assert.Equal(t, "test-secret", cfg.Web.Secret)
	assert.Equal(t, "db.local", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("RINDESTORE_WEB_PORT", "2817")
	t.Setenv("RINDESTORE_DB_HOST", "override.local")
	t.Setenv("RINDESTORE_SYSTEM_DEBUG", "false")

	cfg := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Equal(t, 2817, cfg.Web.Port)
	assert.Equal(t, "override.local", cfg.Database.Host)
	assert.False(t, cfg.System.Debug)
}
