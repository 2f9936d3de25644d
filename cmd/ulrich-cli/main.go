// Package main is the entry point for the ulrich-cli application.
// It initializes the root command and registers the config, db and storage
// sub-commands, then executes the command-line interface.
package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	commands "github.com/leliel12/ulrich/cmd/ulrich-cli/internal/commands"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "ulrich-cli",
		Short: "Capture catalog administration tool",
		Long: `ulrich-cli administers the SWIR/VNIR capture catalog.
It manages the configuration file, creates the database schema and tables,
and reconciles the blob store against the relational catalog.

The configuration path is read from the ULRICH_CONFIG environment variable
and defaults to configs/app.yaml.`,
	}

	if err := commands.InitConfigCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize config commands: %w", err)
	}
	if err := commands.InitDBCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize db commands: %w", err)
	}
	if err := commands.InitStorageCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize storage commands: %w", err)
	}

	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}
