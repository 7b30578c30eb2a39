// Package cli holds the cobra commands of the server binary.
package cli

import (
	"project-tracker-api/internal/config"
	"project-tracker-api/internal/database"
	applog "project-tracker-api/internal/log"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// RootCmd returns the root command with every subcommand attached
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "project-tracker",
		Short: "Project tracker API server and maintenance tools",
		Long: `project-tracker serves the task, project and dashboard API for
directors, project heads and employees, and ships a few maintenance commands.`,
		SilenceUsage: true,
	}

	root.AddCommand(ServeCmd())
	root.AddCommand(MigrateCmd())
	root.AddCommand(BootstrapDirectorCmd())
	root.AddCommand(SummaryCmd())
	return root
}

// setup loads configuration, applies the log level and opens the database
func setup() (*config.Config, *gorm.DB, error) {
	cfg := config.Load()
	applog.SetLevel(cfg.LogLevel)

	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
