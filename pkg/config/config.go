package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Env      string
	Server   ServerConfig
	Backend  BackendConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Session  SessionConfig
	Features FeatureConfig
	OTEL     OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// BackendConfig describes the hospital REST backend this front desk talks to
type BackendConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig holds the staleness windows of the query cache
type CacheConfig struct {
	DefaultStaleSeconds   int
	DashboardStaleSeconds int
	QueryRetries          int
}

// SessionConfig holds browser session and CLI session settings
type SessionConfig struct {
	TTLHours     int
	CookieSecure bool
	CLIFile      string
}

// FeatureConfig holds optional behaviour toggles
type FeatureConfig struct {
	RoutePreload bool
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Env: getEnv("ENV", "development"),
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		},
		Backend: BackendConfig{
			BaseURL:        getEnv("BACKEND_URL", "http://127.0.0.1:8000"),
			TimeoutSeconds: getEnvAsInt("BACKEND_TIMEOUT_SECONDS", 10),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			DefaultStaleSeconds:   getEnvAsInt("CACHE_DEFAULT_STALE_SECONDS", 60),
			DashboardStaleSeconds: getEnvAsInt("CACHE_DASHBOARD_STALE_SECONDS", 300),
			QueryRetries:          getEnvAsInt("CACHE_QUERY_RETRIES", 1),
		},
		Session: SessionConfig{
			TTLHours:     getEnvAsInt("SESSION_TTL_HOURS", 12),
			CookieSecure: getEnvAsBool("SESSION_COOKIE_SECURE", false),
			CLIFile:      getEnv("HMSCTL_SESSION_FILE", defaultSessionFile()),
		},
		Features: FeatureConfig{
			RoutePreload: getEnvAsBool("FEATURE_ROUTE_PRELOAD", true),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "hms-frontdesk"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if strings.TrimSpace(cfg.Backend.BaseURL) == "" {
		return nil, fmt.Errorf("BACKEND_URL must not be empty")
	}
	if cfg.Cache.DefaultStaleSeconds < 0 || cfg.Cache.DashboardStaleSeconds < 0 {
		return nil, fmt.Errorf("cache staleness windows must not be negative")
	}

	return cfg, nil
}

// IsDevelopment reports whether the process runs with ENV=development
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Addr returns the listen address of the HTTP server
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Timeout returns the per-request timeout for backend calls
func (c *BackendConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DefaultStale is the freshness window of ordinary list and detail reads
func (c *CacheConfig) DefaultStale() time.Duration {
	return time.Duration(c.DefaultStaleSeconds) * time.Second
}

// DashboardStale is the freshness window of the dashboard reads
func (c *CacheConfig) DashboardStale() time.Duration {
	return time.Duration(c.DashboardStaleSeconds) * time.Second
}

// TTL returns how long an idle browser session is kept
func (c *SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".hmsctl-session.json"
	}
	return home + string(os.PathSeparator) + ".hmsctl-session.json"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
