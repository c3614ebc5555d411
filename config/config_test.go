package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig("")
	assert.Equal(t, "TiendaStore", cfg.System.Appid)
	assert.Equal(t, 1816, cfg.Web.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "+504", cfg.Verify.PhonePrefix)
	assert.False(t, cfg.Verify.RequireForPurchase)
}

func TestLoadConfigFromFile(t *testing.T) {
	cfile := filepath.Join(t.TempDir(), "tienda.yml")
	require.NoError(t, os.WriteFile(cfile, []byte(`
web:
  port: 9090
database:
  type: sqlite
  name: tiendatest
notify:
  destinatary: duena@example.com
`), 0o644))

	cfg := LoadConfig(cfile)
	assert.Equal(t, 9090, cfg.Web.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "tiendatest", cfg.Database.Name)
	assert.Equal(t, "duena@example.com", cfg.Notify.Destinatary)
	// untouched sections keep their defaults
	assert.Equal(t, "America/Tegucigalpa", cfg.System.Location)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("TIENDA_WEB_PORT", "2025")
	t.Setenv("TIENDA_DB_TYPE", "sqlite")
	t.Setenv("TIENDA_SYSTEM_DEBUG", "off")
	t.Setenv("TIENDA_VERIFY_PURCHASE", "true")

	cfg := LoadConfig("")
	assert.Equal(t, 2025, cfg.Web.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.False(t, cfg.System.Debug)
	assert.True(t, cfg.Verify.RequireForPurchase)
}
