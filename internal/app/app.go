// Package app wires the stores, services and HTTP handlers together.
package app

import (
	"project-tracker-api/internal/auth"
	"project-tracker-api/internal/config"
	"project-tracker-api/internal/dashboard"
	"project-tracker-api/internal/handlers"
	"project-tracker-api/internal/realtime"
	"project-tracker-api/internal/store"
	"project-tracker-api/internal/workflow"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds the wired components of a running server
type App struct {
	Store     *store.GormStore
	Workflow  *workflow.Service
	Dashboard *dashboard.Service
	Hub       *realtime.Hub
	Handler   *handlers.Handler
}

// New wires every component over db
func New(db *gorm.DB, cfg *config.Config, logger *logrus.Logger, hub *realtime.Hub) *App {
	if hub == nil {
		hub = realtime.NewHub()
	}
	s := store.NewGormStore(db)
	wf := workflow.NewService(s, hub, logger)
	dash := dashboard.NewService(s, s, s, cfg.EmployeeCacheTTL, logger)

	h := handlers.New(handlers.Deps{
		Workflow:  wf,
		Dashboard: dash,
		Projects:  s,
		Employees: s,
		Work:      s,
		Comments:  s,
		Tokens:    auth.NewTokens(cfg),
		Hub:       hub,
		Logger:    logger,
	})

	return &App{
		Store:     s,
		Workflow:  wf,
		Dashboard: dash,
		Hub:       hub,
		Handler:   h,
	}
}
