package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Database type constants
const (
	PostgresDbType = "postgres"
	SqliteDbType   = "sqlite"
)

// DatabaseSettings holds the connection settings for the relational store.
type DatabaseSettings struct {
	Type   string `mapstructure:"type" validate:"required,oneof=postgres sqlite"`
	DSN    string `mapstructure:"dsn" validate:"required"`
	DBName string `mapstructure:"db_name"`
}

// Validate checks that all fields in DatabaseSettings are valid
func (s *DatabaseSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for DatabaseSettings: %w", err)
	}

	if s.Type == PostgresDbType && s.DBName == "" {
		return fmt.Errorf("db_name is required for postgres")
	}

	return nil
}

// ContainerID derives the blob container identifier from the database
// identity, so each logical database gets an isolated storage namespace.
func (s *DatabaseSettings) ContainerID() string {
	if s.DBName != "" {
		return s.DBName
	}

	// SQLite has no catalog name; fall back to the file base name.
	if s.Type == SqliteDbType {
		dsn := strings.TrimPrefix(s.DSN, "file:")
		if dsn == "" || strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
			return "memory"
		}
		base := filepath.Base(dsn)
		if i := strings.IndexByte(base, '?'); i >= 0 {
			base = base[:i]
		}
		return strings.TrimSuffix(base, filepath.Ext(base))
	}

	return "default"
}
