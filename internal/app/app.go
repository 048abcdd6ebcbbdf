// Package app wires configuration, storage, and services into a running core.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/numeralab/numera/internal/common"
	"github.com/numeralab/numera/internal/interfaces"
	"github.com/numeralab/numera/internal/services/metrics"
	"github.com/numeralab/numera/internal/storage/surrealdb"
)

// App holds all initialized services and storage. It is the shared core used
// by cmd/numera-server and by the API tests.
type App struct {
	Config         *common.Config
	Logger         *common.Logger
	Storage        interfaces.StorageManager
	MetricsService interfaces.MetricsService
	StartupTime    time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, logging, storage, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Resolve config: provided path, NUMERA_CONFIG, binary dir, then dev fallback
	if configPath == "" {
		configPath = os.Getenv("NUMERA_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "numera.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/numera.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative log file path to binary directory
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(binDir, config.Logging.FilePath)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := surrealdb.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	metricsService := metrics.NewService(storageManager, config, logger)

	a := &App{
		Config:         config,
		Logger:         logger,
		Storage:        storageManager,
		MetricsService: metricsService,
		StartupTime:    startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// NewAppWithStorage builds an App around an existing storage manager.
// Used by tests that provision their own database.
func NewAppWithStorage(config *common.Config, logger *common.Logger, storage interfaces.StorageManager) *App {
	return &App{
		Config:         config,
		Logger:         logger,
		Storage:        storage,
		MetricsService: metrics.NewService(storage, config, logger),
		StartupTime:    time.Now(),
	}
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
