// Package app wires configuration, storage and the intake workflow shared by
// the server binaries.
package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sahos-screening-server/internal/config"
	"github.com/sahos-screening-server/internal/report"
	"github.com/sahos-screening-server/internal/service"
	"github.com/sahos-screening-server/internal/session"
)

// App holds the wired components of one process.
type App struct {
	Config  *config.Manager
	Logger  *logrus.Logger
	Store   *session.SQLiteStore
	Intake  *service.IntakeService
	Printer *report.Printer
}

// New loads and validates configuration, opens the session store and restores
// the persisted session.
func New(ctx context.Context, opts ...config.Option) (*App, error) {
	configManager, err := config.NewManager(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := configManager.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := configManager.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := configManager.GetConfig()
	logger := config.NewLogger(cfg.Logging)

	store, err := session.NewSQLiteStore(configManager.SessionDBPath(), cfg.Storage.SessionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	cache, err := service.NewConclusionCache(cfg.Conclusion.CacheSize)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create conclusion cache: %w", err)
	}

	intake := service.NewIntakeService(logger, store, service.IntakeOptions{
		ConclusionDelay: cfg.Conclusion.Delay,
		Cache:           cache,
	})
	intake.Load(ctx)

	logger.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"database":    store.Path(),
	}).Info("Application initialized")

	return &App{
		Config:  configManager,
		Logger:  logger,
		Store:   store,
		Intake:  intake,
		Printer: report.NewPrinter(),
	}, nil
}

// Close releases the session store.
func (a *App) Close() error {
	return a.Store.Close()
}
