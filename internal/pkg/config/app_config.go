package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrDefaultConfigWritten signals that no configuration file existed at the
// requested path and a default one was written for the operator to review.
// Callers must treat this as fatal to startup.
var ErrDefaultConfigWritten = errors.New("default configuration written")

// AppConfig holds every setting the application needs at startup.
type AppConfig struct {
	Database DatabaseSettings `mapstructure:"database"`
	Storage  StorageSettings  `mapstructure:"storage"`
	Logger   LoggerSettings   `mapstructure:"logger"`
	Server   ServerSettings   `mapstructure:"server"`
}

// Validate checks every settings section.
func (c *AppConfig) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Logger.Validate(); err != nil {
		return err
	}
	return c.Server.Validate()
}

// InitializeAppConfig loads and validates the application configuration from
// a YAML file. When the file does not exist, a default mapping is written to
// the same path and ErrDefaultConfigWritten is returned so the process can
// abort and let an operator review it before the first real run.
func InitializeAppConfig(path string) (*AppConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if werr := WriteDefaultConfig(path); werr != nil {
			return nil, fmt.Errorf("failed to write default config to %s: %w", path, werr)
		}
		return nil, fmt.Errorf("%w to %s", ErrDefaultConfigWritten, path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DefaultConfig returns the mapping written out when no config file exists.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Database: DatabaseSettings{
			Type: SqliteDbType,
			DSN:  "ulrich.db",
		},
		Storage: StorageSettings{
			Root: "ulrich_storage",
		},
		Logger: LoggerSettings{
			LogLevel: LogLevelInfo,
			LogType:  LogTypeConsole,
		},
		Server: ServerSettings{
			Port: "8080",
		},
	}
}

// WriteDefaultConfig writes the default mapping as YAML to path, creating
// parent directories as needed.
func WriteDefaultConfig(path string) error {
	cfg := DefaultConfig()

	doc := map[string]any{
		"database": map[string]any{
			"type":    cfg.Database.Type,
			"dsn":     cfg.Database.DSN,
			"db_name": cfg.Database.DBName,
		},
		"storage": map[string]any{
			"root": cfg.Storage.Root,
		},
		"logger": map[string]any{
			"log_level": cfg.Logger.LogLevel,
			"log_type":  cfg.Logger.LogType,
		},
		"server": map[string]any{
			"port": cfg.Server.Port,
		},
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
