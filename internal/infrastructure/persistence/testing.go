//go:build integration
// +build integration

package persistence

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/leliel12/ulrich/internal/pkg/config"
	"github.com/leliel12/ulrich/internal/pkg/testutil"
)

// SetupTestDatabase builds a fully initialized facade against an in-memory
// SQLite database and a temporary storage root, with automatic cleanup.
func SetupTestDatabase(t *testing.T) *Database {
	t.Helper()

	// A uniquely named shared-cache memory database keeps every pooled
	// connection on the same store while isolating tests from each other.
	memName := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	dbSettings := config.DatabaseSettings{
		Type: config.SqliteDbType,
		DSN:  fmt.Sprintf("file:%s?mode=memory&cache=shared", memName),
	}
	storageSettings := config.StorageSettings{
		Root: t.TempDir(),
	}

	log := testutil.SetupTestLogger(t)

	db, err := New(dbSettings, storageSettings, log)
	require.NoError(t, err, "Failed to construct database facade")

	t.Cleanup(func() {
		_ = db.Close()
	})

	require.NoError(t, db.CreateSchema(), "Failed to create schema")
	require.NoError(t, db.CreateTables(), "Failed to create tables")

	return db
}
