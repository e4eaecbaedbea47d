package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PROJECT_ROOT", t.TempDir())

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, STORAGE_BACKEND_REDIS, cfg.Storage.Backend)
	assert.Equal(t, DEFAULT_CONTAINER, cfg.Storage.Container)
	assert.Equal(t, REDIS_DB_ADDRESS, cfg.Redis.Address)
	assert.Equal(t, DEFAULT_HISTORY_KEY, cfg.Keys.History)
	assert.Equal(t, DEFAULT_MODEL_KEY, cfg.Keys.Model)
	assert.Equal(t, DEFAULT_FORECAST_PREFIX, cfg.Keys.ForecastPrefix)
	assert.Equal(t, 48, cfg.Forecast.HorizonSteps)
	assert.Equal(t, 30, cfg.Forecast.StepMinutes)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 7, cfg.Dashboard.ForecastCount)
	assert.Equal(t, 7, cfg.Dashboard.HistoryDays)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PROJECT_ROOT", t.TempDir())
	t.Setenv("GRIDFORECAST_STORAGE_BACKEND", "memory")
	t.Setenv("GRIDFORECAST_SERVER_PORT", "9090")
	t.Setenv("GRIDFORECAST_KEYS_MODEL", "models/ridge_model_24may.json")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, STORAGE_BACKEND_MEMORY, cfg.Storage.Backend)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "models/ridge_model_24may.json", cfg.Keys.Model)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PROJECT_ROOT", dir)
	yaml := "storage:\n  backend: minio\nminio:\n  endpoint: blob.local:9000\ndashboard:\n  forecast_count: 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, STORAGE_BACKEND_MINIO, cfg.Storage.Backend)
	assert.Equal(t, "blob.local:9000", cfg.Minio.Endpoint)
	assert.Equal(t, 3, cfg.Dashboard.ForecastCount)
}

func TestLoad_InvalidBackend(t *testing.T) {
	t.Setenv("PROJECT_ROOT", t.TempDir())
	t.Setenv("GRIDFORECAST_STORAGE_BACKEND", "azure")

	_, err := Load()

	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Storage:  StorageConfig{Backend: STORAGE_BACKEND_MEMORY},
		Keys:     KeysConfig{History: "h", Model: "m"},
		Forecast: ForecastConfig{HorizonSteps: 48, StepMinutes: 30},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero horizon", func(c *Config) { c.Forecast.HorizonSteps = 0 }},
		{"negative step", func(c *Config) { c.Forecast.StepMinutes = -30 }},
		{"missing model key", func(c *Config) { c.Keys.Model = "" }},
		{"negative dashboard count", func(c *Config) { c.Dashboard.ForecastCount = -1 }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := valid
			test.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
