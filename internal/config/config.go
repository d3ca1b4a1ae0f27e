package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string

	HTTPAddr        string
	ShutdownTimeout time.Duration

	// Postgres
	PostgresDSN    string
	DBMaxOpenConns int
	DBMaxIdleConns int
	DBConnMaxLife  time.Duration
	DBEnsureSchema bool

	// Redis & Caching; empty RedisURL disables the metrics cache
	RedisURL        string
	MetricsCacheTTL time.Duration

	// Bucket labels are rendered in this zone
	Location *time.Location

	LogLevel  string
	LogFormat string
}

func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.AppEnv = getEnv("APP_ENV", "dev")
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	cfg.ShutdownTimeout = getDuration("SHUTDOWN_TIMEOUT", 5*time.Second)

	cfg.PostgresDSN = getEnv("POSTGRES_DSN", "")
	cfg.DBMaxOpenConns = getIntEnv("DB_MAX_OPEN_CONNS", 20)
	cfg.DBMaxIdleConns = getIntEnv("DB_MAX_IDLE_CONNS", 10)
	cfg.DBConnMaxLife = getDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	cfg.DBEnsureSchema = getBoolEnv("DB_ENSURE_SCHEMA", true)

	cfg.RedisURL = getEnv("REDIS_URL", "")
	cfg.MetricsCacheTTL = getDuration("METRICS_CACHE_TTL", 60*time.Second)

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "console")

	tz := getEnv("APP_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", tz, err)
	}
	cfg.Location = loc

	// validation
	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("missing POSTGRES_DSN")
	}
	if cfg.MetricsCacheTTL <= 0 {
		return nil, fmt.Errorf("METRICS_CACHE_TTL must be positive")
	}

	return cfg, nil
}

// CacheEnabled reports whether a Redis URL was configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != ""
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getIntEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getBoolEnv(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
