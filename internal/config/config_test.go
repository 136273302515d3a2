package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"gold/output", "gold"}, cfg.Data.Dirs)
	assert.Equal(t, "memory", cfg.Data.Cache.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)

	assert.Equal(t, 365.0, cfg.Risk.WarnDays)
	assert.Equal(t, 730.0, cfg.Risk.CriticalDays)
	assert.Equal(t, 40.0, cfg.Risk.TimeCriticalPoints)
	assert.Equal(t, 10.0, cfg.Risk.KeywordPoints["CREDENCI"])
	assert.Equal(t, 66.0, cfg.Risk.MediumMax)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("REGDASH_SERVER_PORT", "9000")
	t.Setenv("REGDASH_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestWriteDefaultFile(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultFile(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "warn_days: 365")
	assert.Contains(t, string(data), "driver: memory")

	// A second write must not clobber the existing file.
	assert.Error(t, WriteDefaultFile(path, cfg))
}

func TestInitLogger(t *testing.T) {
	assert.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.Error(t, InitLogger(LogConfig{Level: "loud", Format: "json"}))
}
