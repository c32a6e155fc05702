package internal

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	Port        int
	LogLevel    string
	DatabaseUrl string

	// Per-statement database timeout. A store call that exceeds this is
	// reported as an internal error, never retried.
	DBQueryTimeout time.Duration

	// Admin bootstrap: accounts registering with one of these emails get the
	// admin role. Admin access is always the server-side role column; there
	// is no separate admin password.
	AdminEmails []string

	// CORS
	CORSAllowedOrigins []string

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		DBQueryTimeout: getEnvDuration("DB_QUERY_TIMEOUT", 5*time.Second),

		// Metrics authentication
		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	// Parse admin emails from comma-separated environment variable
	adminEmailsStr := getEnv("ADMIN_EMAILS", "")
	if adminEmailsStr != "" {
		emails := strings.Split(adminEmailsStr, ",")
		for _, email := range emails {
			trimmed := strings.TrimSpace(strings.ToLower(email))
			if trimmed != "" {
				cfg.AdminEmails = append(cfg.AdminEmails, trimmed)
			}
		}
	}

	// Parse CORS origins; default allows the local dev frontend
	originsStr := getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	for _, origin := range strings.Split(originsStr, ",") {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, trimmed)
		}
	}

	// Required
	cfg.DatabaseUrl = os.Getenv("DATABASE_URL")
	if cfg.DatabaseUrl == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.DBQueryTimeout <= 0 {
		return nil, fmt.Errorf("DB_QUERY_TIMEOUT must be positive, got: %s", cfg.DBQueryTimeout)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
