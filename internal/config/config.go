package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	LogLevel    string

	HTTPAddr         string
	AuthCookieSecure bool
	SessionTTLDays   int
	DefaultTenant    string

	StorageBackend string
	SQLitePath     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SeedOnFirstUse bool
}

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	authCookieSecure := environment == "production"
	if !authCookieSecure {
		authCookieSecure = getenvBool("AUTH_COOKIE_SECURE", false)
	}

	cfg := Config{
		AppName:          getenv("APP_SERVICE", "walletadmin"),
		AppVersion:       getenv("APP_VERSION", "0.1.0"),
		Environment:      environment,
		LogLevel:         getenv("LOG_LEVEL", "info"),
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		AuthCookieSecure: authCookieSecure,
		SessionTTLDays:   getenvInt("SESSION_TTL_DAYS", 7),
		DefaultTenant:    strings.TrimSpace(getenv("DEFAULT_TENANT", "")),
		StorageBackend:   normalizeBackend(getenv("STORAGE_BACKEND", BackendSQLite)),
		SQLitePath:       getenv("SQLITE_PATH", "walletadmin.db"),
		RedisAddr:        getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getenv("REDIS_PASSWORD", ""),
		RedisDB:          getenvInt("REDIS_DB", 0),
		SeedOnFirstUse:   getenvBool("SEED_ON_FIRST_USE", true),
	}

	return cfg
}

func normalizeBackend(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case BackendMemory, BackendRedis:
		return value
	case BackendSQLite, "":
		return BackendSQLite
	default:
		return BackendSQLite
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

// Module wires application configuration.
var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewSeedConfigHolder),
)
