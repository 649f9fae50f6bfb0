package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lovedocu/internal/common"
	"github.com/ternarybob/lovedocu/internal/handlers"
	"github.com/ternarybob/lovedocu/internal/interfaces"
	"github.com/ternarybob/lovedocu/internal/services/artifacts"
	"github.com/ternarybob/lovedocu/internal/services/janitor"
	"github.com/ternarybob/lovedocu/internal/services/pdf"
	"github.com/ternarybob/lovedocu/internal/services/workspace"
	"github.com/ternarybob/lovedocu/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Storage
	StorageManager interfaces.StorageManager

	// Services
	Workspaces      *workspace.Manager
	DocumentService interfaces.DocumentService
	ArtifactService interfaces.ArtifactService
	Janitor         *janitor.Service

	// HTTP handlers
	APIHandler       *handlers.APIHandler
	PageHandler      *handlers.PageHandler
	OperationHandler *handlers.OperationHandler
	ArtifactHandler  *handlers.ArtifactHandler
	MCPHandler       *handlers.MCPHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize database
	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize services
	if err := app.initServices(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	// Initialize handlers
	app.initHandlers()

	logger.Info().
		Str("workspace_root", app.Workspaces.Root()).
		Str("artifact_ttl", cfg.ArtifactTTL().String()).
		Msg("Application initialized")

	return app, nil
}

func (a *App) initDatabase() error {
	storageManager, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	return nil
}

// initServices initializes the business services in dependency order:
// workspaces -> document service -> artifacts -> janitor
func (a *App) initServices() error {
	workspaces, err := workspace.NewManager(a.Config.Workspace.Root, a.Logger)
	if err != nil {
		return err
	}
	a.Workspaces = workspaces

	a.DocumentService = pdf.NewService(workspaces, a.Config.Render, a.Logger)
	a.ArtifactService = artifacts.NewService(a.StorageManager.ArtifactStorage(), a.Config.ArtifactTTL(), a.Logger)

	a.Janitor = janitor.NewService(
		a.StorageManager.ArtifactStorage(),
		workspaces,
		a.StorageManager,
		a.Config.WorkspaceMaxAge(),
		a.Logger,
	)

	// Remove anything a previous run left behind before serving
	a.Janitor.RunOnce(context.Background())

	if a.Config.Janitor.Enabled {
		if err := a.Janitor.Start(a.Config.Janitor.Schedule); err != nil {
			return fmt.Errorf("failed to start janitor: %w", err)
		}
	} else {
		a.Logger.Info().Msg("Janitor disabled by configuration")
	}

	return nil
}

func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.Logger)
	a.PageHandler = handlers.NewPageHandler(a.Logger, a.Config.Limits.MaxUploadMB)
	a.OperationHandler = handlers.NewOperationHandler(a.DocumentService, a.ArtifactService, a.Config.MaxUploadBytes(), a.Logger)
	a.ArtifactHandler = handlers.NewArtifactHandler(a.ArtifactService, a.Logger)
	a.MCPHandler = handlers.NewMCPHandler(a.DocumentService, a.ArtifactService, a.Config.BaseURL(), a.Logger)
}

// Close stops background work and closes storage
func (a *App) Close() error {
	if a.Janitor != nil {
		a.Janitor.Stop()
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}

	return nil
}
