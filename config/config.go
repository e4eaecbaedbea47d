package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends
const STORAGE_BACKEND_REDIS = "redis"
const STORAGE_BACKEND_MINIO = "minio"
const STORAGE_BACKEND_MEMORY = "memory"

// Blob layout
const DEFAULT_CONTAINER = "forecasting"
const DEFAULT_HISTORY_KEY = "nesodata/demanddataupdate.csv"
const DEFAULT_MODEL_KEY = "models/ridge_model.json"
const DEFAULT_FORECAST_PREFIX = "next_day_forecast/"

// Redis defaults
const REDIS_DB_ADDRESS = "redis:6379"
const REDIS_DB_PASSWORD = ""
const REDIS_DB = 0

const ENV_PREFIX = "GRIDFORECAST"

// Config aggregates all configuration settings and is passed explicitly to
// every component that needs it.
type Config struct {
	Environment string          `mapstructure:"environment"`
	LogLevel    string          `mapstructure:"log_level"`
	LogFormat   string          `mapstructure:"log_format"`
	Storage     StorageConfig   `mapstructure:"storage"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Minio       MinioConfig     `mapstructure:"minio"`
	Keys        KeysConfig      `mapstructure:"keys"`
	Forecast    ForecastConfig  `mapstructure:"forecast"`
	Ingest      IngestConfig    `mapstructure:"ingest"`
	Server      ServerConfig    `mapstructure:"server"`
	Dashboard   DashboardConfig `mapstructure:"dashboard"`
}

// StorageConfig selects the blob backend.
type StorageConfig struct {
	Backend   string `mapstructure:"backend"`
	Container string `mapstructure:"container"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// KeysConfig names the blobs inside the container.
type KeysConfig struct {
	History        string `mapstructure:"history"`
	Model          string `mapstructure:"model"`
	ForecastPrefix string `mapstructure:"forecast_prefix"`
}

// ForecastConfig controls the forecast horizon. ScheduleMinutes > 0 makes
// `serve` run the forecast periodically.
type ForecastConfig struct {
	HorizonSteps    int `mapstructure:"horizon_steps"`
	StepMinutes     int `mapstructure:"step_minutes"`
	ScheduleMinutes int `mapstructure:"schedule_minutes"`
}

type IngestConfig struct {
	SourceURL      string `mapstructure:"source_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type DashboardConfig struct {
	ForecastCount int `mapstructure:"forecast_count"`
	HistoryDays   int `mapstructure:"history_days"`
}

// Load reads .env (if present), config.yaml (if present) and GRIDFORECAST_*
// environment variables on top of the defaults.
func Load() (*Config, error) {
	_ = godotenv.Load(filepath.Join(BaseDir(), ".env"))

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(BaseDir())

	setDefaults(v)

	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetDefault("storage.backend", STORAGE_BACKEND_REDIS)
	v.SetDefault("storage.container", DEFAULT_CONTAINER)

	v.SetDefault("redis.address", REDIS_DB_ADDRESS)
	v.SetDefault("redis.password", REDIS_DB_PASSWORD)
	v.SetDefault("redis.db", REDIS_DB)

	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.use_ssl", false)

	v.SetDefault("keys.history", DEFAULT_HISTORY_KEY)
	v.SetDefault("keys.model", DEFAULT_MODEL_KEY)
	v.SetDefault("keys.forecast_prefix", DEFAULT_FORECAST_PREFIX)

	v.SetDefault("forecast.horizon_steps", 48)
	v.SetDefault("forecast.step_minutes", 30)
	v.SetDefault("forecast.schedule_minutes", 0)

	v.SetDefault("ingest.source_url", "")
	v.SetDefault("ingest.timeout_seconds", 60)

	v.SetDefault("server.port", 8080)

	v.SetDefault("dashboard.forecast_count", 7)
	v.SetDefault("dashboard.history_days", 7)
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case STORAGE_BACKEND_REDIS, STORAGE_BACKEND_MINIO, STORAGE_BACKEND_MEMORY:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Forecast.HorizonSteps <= 0 {
		return fmt.Errorf("forecast.horizon_steps must be positive, got %d", c.Forecast.HorizonSteps)
	}
	if c.Forecast.StepMinutes <= 0 {
		return fmt.Errorf("forecast.step_minutes must be positive, got %d", c.Forecast.StepMinutes)
	}
	if c.Keys.History == "" || c.Keys.Model == "" {
		return fmt.Errorf("keys.history and keys.model must be set")
	}
	if c.Dashboard.ForecastCount < 0 || c.Dashboard.HistoryDays < 0 {
		return fmt.Errorf("dashboard counts must not be negative")
	}
	return nil
}

// BaseDir returns the absolute path of the project root directory
func BaseDir() string {
	if root := os.Getenv("PROJECT_ROOT"); root != "" {
		return root
	}

	wd, err := os.Getwd()
	if err != nil {
		panic("Unable to determine working directory: " + err.Error())
	}

	return wd
}
