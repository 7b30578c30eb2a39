package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_EXPIRY", "")

	cfg := Load()
	require.Equal(t, "8008", cfg.Port)
	require.Equal(t, "sqlite", cfg.DBDriver)
	require.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	require.Equal(t, 30*time.Second, cfg.EmployeeCacheTTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("EMPLOYEE_CACHE_TTL", "not-a-duration")

	cfg := Load()
	require.Equal(t, "9000", cfg.Port)
	require.Equal(t, "postgres", cfg.DBDriver)
	require.Equal(t, 2*time.Hour, cfg.JWTExpiry)
	require.Equal(t, 30*time.Second, cfg.EmployeeCacheTTL)
}
