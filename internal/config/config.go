package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const devCSRFKey = "dev-csrf-key-change-in-production"

// Config holds the console server settings.
type Config struct {
	Port string
	Env  string

	// APIBaseURL is the origin of the classifieds REST API; APIPrefix is the
	// path every endpoint lives under.
	APIBaseURL string
	APIPrefix  string
	APITimeout time.Duration

	// StorageDriver selects where browser sessions are persisted:
	// "memory", "mysql" or "redis".
	StorageDriver string
	DatabaseDSN   string
	RedisURL      string
	// SessionTTL is how long an idle browser session is kept by storage
	// backends that expire keys.
	SessionTTL time.Duration

	CookieName   string
	CookieSecure bool
	CSRFKey      string

	// RenderBudget is how long a table render waits for a fetch before
	// falling back to the previous page's rows.
	RenderBudget   time.Duration
	CacheStaleTime time.Duration
	CacheIdleTTL   time.Duration

	LoginRPS   float64
	LoginBurst int
}

// Load reads the configuration from the environment.
func Load() Config {
	cfg := Config{
		Port:           getEnv("PORT", "3000"),
		Env:            getEnv("ENV", "development"),
		APIBaseURL:     strings.TrimRight(getEnv("API_BASE_URL", "http://127.0.0.1:8080"), "/"),
		APIPrefix:      getEnv("API_PREFIX", "/cayiba/api/v1"),
		APITimeout:     getDuration("API_TIMEOUT", 15*time.Second),
		StorageDriver:  getEnv("STORAGE_DRIVER", "memory"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/cayiba_console?parseTime=true"),
		RedisURL:       getEnv("REDIS_URL", "redis://127.0.0.1:6379/0"),
		SessionTTL:     getDuration("SESSION_TTL", 30*24*time.Hour),
		CookieName:     getEnv("COOKIE_NAME", "cayiba_sid"),
		CookieSecure:   getBool("COOKIE_SECURE", false),
		CSRFKey:        getEnv("CSRF_KEY", ""),
		RenderBudget:   getDuration("RENDER_BUDGET", 750*time.Millisecond),
		CacheStaleTime: getDuration("CACHE_STALE_TIME", 0),
		CacheIdleTTL:   getDuration("CACHE_IDLE_TTL", 30*time.Minute),
		LoginRPS:       getFloat("LOGIN_RPS", 5),
		LoginBurst:     getInt("LOGIN_BURST", 10),
	}

	if cfg.Env == "production" {
		if cfg.CSRFKey == "" || cfg.CSRFKey == devCSRFKey {
			slog.Error("CSRF_KEY must be set in production environment")
			os.Exit(1)
		}
		cfg.CookieSecure = true
	}

	return cfg
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case "memory", "mysql", "redis":
	default:
		return errors.New("STORAGE_DRIVER must be one of memory, mysql, redis")
	}
	if c.APIBaseURL == "" {
		return errors.New("API_BASE_URL is required")
	}
	if c.CSRFKey != "" && len(c.CSRFKey) < 32 {
		return errors.New("CSRF_KEY must be at least 32 bytes")
	}
	return nil
}

// MockAPI holds the settings of the development REST API.
type MockAPI struct {
	Port      string
	Prefix    string
	JWTSecret string
	JWTExpiry time.Duration
	AdminUser string
	AdminPass string
}

// LoadMockAPI reads the mock API configuration from the environment.
func LoadMockAPI() MockAPI {
	return MockAPI{
		Port:      getEnv("MOCKAPI_PORT", "8080"),
		Prefix:    getEnv("API_PREFIX", "/cayiba/api/v1"),
		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		JWTExpiry: getDuration("JWT_EXPIRY", 24*time.Hour),
		AdminUser: getEnv("MOCKAPI_ADMIN_EMAIL", "admin@cayiba.dev"),
		AdminPass: getEnv("MOCKAPI_ADMIN_PASSWORD", "Admin12345"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		slog.Warn("ignoring invalid duration", "key", key, "value", v)
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
