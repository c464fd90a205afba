// Package app wires configuration, storage, the model, and the services into
// a single application core shared by the server binary and the tests.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/aurum/internal/common"
	"github.com/bobmcallan/aurum/internal/interfaces"
	"github.com/bobmcallan/aurum/internal/services/auth"
	"github.com/bobmcallan/aurum/internal/services/chart"
	"github.com/bobmcallan/aurum/internal/services/prediction"
	"github.com/bobmcallan/aurum/internal/services/predictor"
	"github.com/bobmcallan/aurum/internal/services/session"
	"github.com/bobmcallan/aurum/internal/storage"
)

// App holds all initialized services and storage. Every collaborator is
// injected through here; nothing reaches for package-level state.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Storage     interfaces.StorageManager
	Auth        interfaces.AuthService
	Sessions    interfaces.Sessions
	Engine      interfaces.Model
	Renderer    interfaces.ChartRenderer
	Predictions interfaces.PredictionService
	StartupTime time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, logging, storage, the model artifact, and
// the prediction pipeline. configPath may be empty, in which case AURUM_CONFIG
// and then the binary directory are consulted.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("AURUM_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "aurum.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/aurum.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative artifact path to the binary directory
	if config.Model.ArtifactPath != "" && !filepath.IsAbs(config.Model.ArtifactPath) {
		if _, err := os.Stat(config.Model.ArtifactPath); os.IsNotExist(err) {
			candidate := filepath.Join(binDir, config.Model.ArtifactPath)
			if _, err := os.Stat(candidate); err == nil {
				config.Model.ArtifactPath = candidate
			}
		}
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	model, err := predictor.LoadArtifact(config.Model.ArtifactPath)
	if err != nil {
		storageManager.Close()
		return nil, fmt.Errorf("failed to load model artifact: %w", err)
	}

	return newApp(config, logger, storageManager, model), nil
}

// NewAppWithDeps assembles an App from pre-built collaborators. Tests use it
// to substitute the in-memory backend and a deterministic model.
func NewAppWithDeps(config *common.Config, logger *common.Logger, storageManager interfaces.StorageManager, model interfaces.Model) *App {
	return newApp(config, logger, storageManager, model)
}

func newApp(config *common.Config, logger *common.Logger, storageManager interfaces.StorageManager, model interfaces.Model) *App {
	sessions := session.NewContext()
	authService := auth.NewService(storageManager.AccountStore(), logger)
	engine := predictor.NewEngine(model, logger)
	renderer := chart.NewRenderer()
	predictions := prediction.NewService(sessions, engine, renderer, storageManager.PredictionStore(), logger)

	return &App{
		Config:      config,
		Logger:      logger,
		Storage:     storageManager,
		Auth:        authService,
		Sessions:    sessions,
		Engine:      engine,
		Renderer:    renderer,
		Predictions: predictions,
		StartupTime: time.Now(),
	}
}

// Close shuts down the application and its storage backend.
func (a *App) Close() error {
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("Failed to close storage")
			return err
		}
	}
	return nil
}
