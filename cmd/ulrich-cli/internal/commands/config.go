package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leliel12/ulrich/internal/pkg/config"
)

// ConfigCommandHandler holds dependencies for config sub-commands.
type ConfigCommandHandler struct{}

// NewConfigCommandHandler constructs the handler.
func NewConfigCommandHandler() *ConfigCommandHandler {
	return &ConfigCommandHandler{}
}

// InitCmd writes a default configuration file when none exists, or validates
// the existing one.
func (h *ConfigCommandHandler) InitCmd(cmd *cobra.Command, args []string) error {
	path := configPath()

	cfg, err := config.InitializeAppConfig(path)
	if err != nil {
		if errors.Is(err, config.ErrDefaultConfigWritten) {
			fmt.Printf("Default configuration written to %s\n", path)
			return nil
		}
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	fmt.Printf("Configuration at %s is valid (database type %q, storage root %q)\n",
		path, cfg.Database.Type, cfg.Storage.Root)
	return nil
}

// InitConfigCommands registers the config command group on the root command.
func InitConfigCommands(rootCmd *cobra.Command) error {
	handler := NewConfigCommandHandler()

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file, or validate the existing one",
		RunE:  handler.InitCmd,
	}
	configCmd.AddCommand(initCmd)

	rootCmd.AddCommand(configCmd)
	return nil
}
