package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// StorageSettings holds the filesystem settings for the blob store.
type StorageSettings struct {
	Root string `mapstructure:"root" validate:"required"`
}

// Validate checks that all fields in StorageSettings are valid
func (s *StorageSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for StorageSettings: %w", err)
	}

	return nil
}
