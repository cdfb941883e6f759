package app

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppName      string // Optional: display name used on pages and emails (default: Atrium)
	Secret       string // Required: signs verification and reset tokens
	BaseURL      string // Optional: absolute base URL for links in emails (default: http://localhost:PORT)
	AnalyticsKey string // Optional: site key surfaced to page templates for the analytics snippet

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./atrium.db)
	PepperFile           string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	SessionTTL           time.Duration // Optional: session cookie lifetime (default: 168h)
	VerifyTTL            time.Duration // Optional: verification link/code lifetime (default: 24h)
	CookieDomain         string        // Optional: session cookie Domain attribute
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() (Config, error) {
	cfg := Config{
		AppName:              getEnvOrDefault("APP_NAME", "Atrium"),
		Secret:               os.Getenv("APP_SECRET"),
		BaseURL:              os.Getenv("APP_BASE_URL"),
		AnalyticsKey:         os.Getenv("ANALYTICS_KEY"),
		DatabaseFile:         getEnvOrDefault("APP_DATABASE_FILE", "atrium.db"),
		PepperFile:           getEnvOrDefault("APP_PEPPER_FILE", "pepper"),
		SessionTTL:           getEnvDurationOrDefault("APP_SESSION_TTL", 7*24*time.Hour),
		VerifyTTL:            getEnvDurationOrDefault("APP_VERIFY_TTL", 24*time.Hour),
		CookieDomain:         os.Getenv("APP_COOKIE_DOMAIN"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	// The secret signs every verification and reset token. Refusing to start
	// without one beats silently issuing forgeable tokens.
	if cfg.Secret == "" {
		return Config{}, fmt.Errorf("APP_SECRET is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}

	return cfg, nil
}

// DevMode reports whether the app runs the development sign-up flow, which
// skips email verification.
func (c Config) DevMode() bool {
	return c.Env == "dev"
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

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
