package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// StorageCommandHandler holds dependencies for storage sub-commands.
type StorageCommandHandler struct{}

// NewStorageCommandHandler constructs the handler.
func NewStorageCommandHandler() *StorageCommandHandler {
	return &StorageCommandHandler{}
}

// SweepCmd removes container blobs no acquisition row references, honoring
// the grace window for in-flight ingests.
func (h *StorageCommandHandler) SweepCmd(cmd *cobra.Command, args []string) error {
	grace, err := cmd.Flags().GetDuration("grace")
	if err != nil {
		return fmt.Errorf("failed to parse grace flag: %w", err)
	}

	db, log, err := setupDatabase()
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close database: ", err)
		}
	}()

	removed, err := db.SweepOrphans(context.Background(), grace)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	fmt.Printf("Removed %d orphan blobs from container %s\n", removed, db.Store().Container())
	return nil
}

// InitStorageCommands registers the storage command group on the root command.
func InitStorageCommands(rootCmd *cobra.Command) error {
	handler := NewStorageCommandHandler()

	storageCmd := &cobra.Command{
		Use:   "storage",
		Short: "Manage the blob store",
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove blobs no catalog row references",
		RunE:  handler.SweepCmd,
	}
	sweepCmd.Flags().Duration("grace", time.Hour, "Minimum blob age before it is eligible for removal")
	storageCmd.AddCommand(sweepCmd)

	rootCmd.AddCommand(storageCmd)
	return nil
}
