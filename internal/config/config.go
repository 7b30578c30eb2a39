package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings read from the environment
type Config struct {
	Port             string
	DBDriver         string
	DBDSN            string
	DBLogLevel       string
	JWTSecret        string
	JWTIssuer        string
	JWTAudience      string
	JWTExpiry        time.Duration
	LogLevel         string
	EmployeeCacheTTL time.Duration
}

// Load reads .env (if present) and the process environment
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:             getEnv("PORT", "8008"),
		DBDriver:         strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBDSN:            getEnv("DB_DSN", "tasks-management.db"),
		DBLogLevel:       strings.ToLower(getEnv("DB_LOG_LEVEL", "warn")),
		JWTSecret:        getEnv("JWT_SECRET", "development-insecure-secret-change-me"),
		JWTIssuer:        getEnv("JWT_ISSUER", "project-tracker-api"),
		JWTAudience:      getEnv("JWT_AUDIENCE", "project-tracker-clients"),
		JWTExpiry:        getDuration("JWT_EXPIRY", 24*time.Hour),
		LogLevel:         strings.ToUpper(getEnv("LOG_LEVEL", "INFO")),
		EmployeeCacheTTL: getDuration("EMPLOYEE_CACHE_TTL", 30*time.Second),
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
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return fallback
}
