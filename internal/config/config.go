package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the client engine.
type Config struct {
	App     AppConfig
	Gateway GatewayConfig
	Redis   RedisConfig
	Logger  LoggerConfig
	Refresh RefreshConfig
}

// AppConfig controls the local facade server.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// GatewayConfig holds remote ticket store connection values.
type GatewayConfig struct {
	BaseURL            string
	CallTimeoutSeconds int
}

// RedisConfig holds snapshot cache connection values.
type RedisConfig struct {
	Enabled        bool
	Addr           string
	Password       string
	DB             int
	SnapshotTTLMin int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// RefreshConfig controls the background snapshot refresher.
type RefreshConfig struct {
	Enabled         bool
	IntervalSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ticket-client"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "4200"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Gateway: GatewayConfig{
			BaseURL:            getEnv("GATEWAY_BASE_URL", "http://127.0.0.1:3333"),
			CallTimeoutSeconds: getEnvAsInt("GATEWAY_CALL_TIMEOUT_SECONDS", 10),
		},
		Redis: RedisConfig{
			Enabled:        getEnvAsBool("REDIS_SNAPSHOT_CACHE", false),
			Addr:           getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:       os.Getenv("REDIS_PASSWORD"),
			DB:             redisDB,
			SnapshotTTLMin: getEnvAsInt("REDIS_SNAPSHOT_TTL_MINUTES", 60),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Refresh: RefreshConfig{
			Enabled:         getEnvAsBool("REFRESH_ENABLED", true),
			IntervalSeconds: getEnvAsInt("REFRESH_INTERVAL_SECONDS", 60),
		},
	}

	return cfg, nil
}

// Addr returns the facade bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured facade request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// CallTimeout returns the per-call gateway deadline.
func (g GatewayConfig) CallTimeout() time.Duration {
	if g.CallTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(g.CallTimeoutSeconds) * time.Second
}

// SnapshotTTL returns how long cached snapshots stay valid.
func (r RedisConfig) SnapshotTTL() time.Duration {
	if r.SnapshotTTLMin <= 0 {
		return time.Hour
	}
	return time.Duration(r.SnapshotTTLMin) * time.Minute
}

// Interval returns the refresh period.
func (r RefreshConfig) Interval() time.Duration {
	if r.IntervalSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(r.IntervalSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
