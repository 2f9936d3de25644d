package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/leliel12/ulrich/internal/infrastructure/storage"
)

// ErrPayloadNotSet is returned by the payload accessors when the owning
// locator field is empty. It is distinct from storage.ErrBlobNotFound, which
// means a locator exists but does not resolve.
var ErrPayloadNotSet = errors.New("payload not set")

// Acquisition is one dual-sensor capture belonging to an experiment. Each
// payload field holds an opaque locator into the blob store, never inline
// bytes.
type Acquisition struct {
	SurrogateID
	Stamped

	ExperimentID int64      `gorm:"not null;index" json:"experiment_id" validate:"required"`
	Experiment   Experiment `gorm:"foreignKey:ExperimentID;constraint:OnDelete:RESTRICT" json:"-" validate:"-"`

	MetadataLocator string `gorm:"size:64" json:"metadata_locator,omitempty"`
	SWIRLocator     string `gorm:"size:64" json:"swir_locator,omitempty"`
	VNIRLocator     string `gorm:"size:64" json:"vnir_locator,omitempty"`
}

// ReadMetadata resolves the metadata payload through the default blob store.
func (a *Acquisition) ReadMetadata(ctx context.Context) ([]byte, error) {
	return a.readPayload(ctx, a.MetadataLocator)
}

// ReadSWIR resolves the SWIR sensor payload through the default blob store.
func (a *Acquisition) ReadSWIR(ctx context.Context) ([]byte, error) {
	return a.readPayload(ctx, a.SWIRLocator)
}

// ReadVNIR resolves the VNIR sensor payload through the default blob store.
func (a *Acquisition) ReadVNIR(ctx context.Context) ([]byte, error) {
	return a.readPayload(ctx, a.VNIRLocator)
}

func (a *Acquisition) readPayload(ctx context.Context, locator string) ([]byte, error) {
	if locator == "" {
		return nil, ErrPayloadNotSet
	}

	store, err := storage.Default()
	if err != nil {
		return nil, fmt.Errorf("cannot resolve blob store: %w", err)
	}
	return store.Get(ctx, locator)
}

// Locators returns the non-empty payload locators of the acquisition.
func (a *Acquisition) Locators() []string {
	var out []string
	for _, loc := range []string{a.MetadataLocator, a.SWIRLocator, a.VNIRLocator} {
		if loc != "" {
			out = append(out, loc)
		}
	}
	return out
}

// Validate checks the business rules of the Acquisition entity.
func (a *Acquisition) Validate() error {
	if err := validator.New().Struct(a); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
