package commands

import (
	"fmt"
	"os"

	"github.com/leliel12/ulrich/internal/infrastructure/persistence"
	"github.com/leliel12/ulrich/internal/pkg/config"
	"github.com/leliel12/ulrich/internal/pkg/logger"
)

func configPath() string {
	if path := os.Getenv("ULRICH_CONFIG"); path != "" {
		return path
	}
	return "configs/app.yaml"
}

func setupLogger() (logger.Logger, error) {
	settings := &config.LoggerSettings{
		LogLevel: config.LogLevelInfo,
		LogType:  config.LogTypeConsole,
	}

	if err := logger.InitLogger(settings); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loggerInstance, err := logger.GetLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to get logger instance: %w", err)
	}

	return loggerInstance, nil
}

// setupDatabase loads the configuration and constructs a fully initialized
// facade for administrative commands.
func setupDatabase() (*persistence.Database, logger.Logger, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.InitializeAppConfig(configPath())
	if err != nil {
		return nil, nil, err
	}

	db, err := persistence.New(cfg.Database, cfg.Storage, loggerInstance)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to construct database: %w", err)
	}

	return db, loggerInstance, nil
}
