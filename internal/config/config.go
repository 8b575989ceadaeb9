package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingDatabaseURL = errors.New("DATABASE_URL is not set")

type Config struct {
	App   AppConfig
	DB    DBConfig
	Redis RedisConfig
	Probe ProbeConfig
	Log   LogConfig
}

type AppConfig struct {
	Port    string
	BaseURL string
}

type DBConfig struct {
	URL string
}

// RedisConfig кэш записей. Пустой Addr отключает кэш.
type RedisConfig struct {
	Addr     string
	Password string
	TTL      time.Duration
}

type ProbeConfig struct {
	Timeout time.Duration
}

type LogConfig struct {
	Level string
}

// Load читает конфиг из .env в текущей директории и переменных окружения
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom читает конфиг из указанного файла. Отсутствие файла не ошибка,
// переменные окружения имеют приоритет.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("CACHE_TTL", 24*time.Hour)
	v.SetDefault("PROBE_TIMEOUT", 5*time.Second)
	v.SetDefault("LOG_LEVEL", "info")

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	cfg.App.Port = v.GetString("APP_PORT")
	cfg.App.BaseURL = strings.TrimRight(v.GetString("BASE_URL"), "/")
	if cfg.App.BaseURL == "" {
		cfg.App.BaseURL = "http://localhost:" + cfg.App.Port
	}

	cfg.DB.URL = v.GetString("DATABASE_URL")
	if cfg.DB.URL == "" {
		return nil, ErrMissingDatabaseURL
	}

	cfg.Redis.Addr = v.GetString("REDIS_ADDR")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.TTL = v.GetDuration("CACHE_TTL")

	cfg.Probe.Timeout = v.GetDuration("PROBE_TIMEOUT")
	if cfg.Probe.Timeout <= 0 {
		cfg.Probe.Timeout = 5 * time.Second
	}

	cfg.Log.Level = v.GetString("LOG_LEVEL")

	return &cfg, nil
}
