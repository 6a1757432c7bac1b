package app

import (
	"os"
	"strconv"
	"time"

	"github.com/openvenue/eventd/internal/service"
	"github.com/openvenue/eventd/pkg/jwtx"
)

type Config struct {
	JWTSecret string // Required: HMAC key for token signing (min 32 bytes)
	Issuer    string // Optional: issuer claim for tokens (default: eventd)
	Audience  string // Optional: audience claim for tokens (default: eventd)

	AccessTokenTTL time.Duration // Optional: access token lifetime (default: 10m)
	SessionTTL     time.Duration // Optional: refresh session lifetime (default: 72h)

	DatabaseFile        string        // Optional: path to SQLite database file (default: ./eventd.db)
	SeedAdminPassword   string        // Optional: password for the seeded admin account
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		JWTSecret:           os.Getenv("EVENTD_JWT_SECRET"),
		Issuer:              getEnvOrDefault("EVENTD_ISSUER", "eventd"),
		Audience:            getEnvOrDefault("EVENTD_AUDIENCE", "eventd"),
		AccessTokenTTL:      getEnvDurationOrDefault("EVENTD_ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		SessionTTL:          getEnvDurationOrDefault("EVENTD_SESSION_TTL", service.DefaultSessionTTL),
		DatabaseFile:        getEnvOrDefault("EVENTD_DATABASE_FILE", "eventd.db"),
		SeedAdminPassword:   os.Getenv("EVENTD_SEED_ADMIN_PASSWORD"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
