package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// DBCommandHandler holds dependencies for db sub-commands.
type DBCommandHandler struct{}

// NewDBCommandHandler constructs the handler.
func NewDBCommandHandler() *DBCommandHandler {
	return &DBCommandHandler{}
}

// InitCmd creates the database schema and the catalog tables.
func (h *DBCommandHandler) InitCmd(cmd *cobra.Command, args []string) error {
	db, log, err := setupDatabase()
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close database: ", err)
		}
	}()

	if err := db.CreateSchema(); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := db.CreateTables(); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	fmt.Printf("Schema and tables ready (%d registered models)\n", db.Models().Len())
	return nil
}

// InitDBCommands registers the db command group on the root command.
func InitDBCommands(rootCmd *cobra.Command) error {
	handler := NewDBCommandHandler()

	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the catalog database",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the database schema and tables",
		RunE:  handler.InitCmd,
	}
	dbCmd.AddCommand(initCmd)

	rootCmd.AddCommand(dbCmd)
	return nil
}
