package database

import (
	"path/filepath"
	"testing"

	"project-tracker-api/internal/config"
	"project-tracker-api/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestOpenAndMigrate_SQLite(t *testing.T) {
	cfg := &config.Config{
		DBDriver:   "sqlite",
		DBDSN:      filepath.Join(t.TempDir(), "tracker.db"),
		DBLogLevel: "silent",
	}
	db, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, model := range []any{&models.Employee{}, &models.Project{}, &models.Task{}, &models.IndependentWork{}, &models.Comment{}} {
		require.True(t, db.Migrator().HasTable(model))
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	require.NoError(t, sqlDB.Close())
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(&config.Config{DBDriver: "oracle"})
	require.Error(t, err)
}

func TestLogLevel(t *testing.T) {
	require.Equal(t, logger.Silent, LogLevel("silent"))
	require.Equal(t, logger.Error, LogLevel("error"))
	require.Equal(t, logger.Info, LogLevel("info"))
	require.Equal(t, logger.Warn, LogLevel("anything"))
}
