package app

import (
	"context"
	"fmt"
	"io"

	"github.com/leliel12/ulrich/internal/domain/catalog"
	"github.com/leliel12/ulrich/internal/infrastructure/persistence"
	"github.com/leliel12/ulrich/internal/pkg/logger"
)

// PayloadKind names one of the three payload slots on an acquisition.
type PayloadKind string

const (
	PayloadMetadata PayloadKind = "metadata"
	PayloadSWIR     PayloadKind = "swir"
	PayloadVNIR     PayloadKind = "vnir"
)

// CaptureService ingests dual-sensor acquisitions: payloads go to the blob
// store, the referencing row commits through a transaction scope.
type CaptureService struct {
	db     *persistence.Database
	logger logger.Logger
}

// NewCaptureService creates a new CaptureService instance.
func NewCaptureService(db *persistence.Database, logger logger.Logger) *CaptureService {
	return &CaptureService{db: db, logger: logger}
}

// IngestAcquisition stores the provided payload streams (nil streams leave
// the slot empty) and commits an acquisition row referencing their locators
// under the experiment identified by code.
//
// The blob writes happen before the commit and are not part of the
// transaction; if the commit fails the staged blobs are deleted best-effort,
// and anything a crash leaves behind is reclaimed by the orphan sweep.
func (s *CaptureService) IngestAcquisition(ctx context.Context, experimentCode string, metadata, swir, vnir io.Reader) (*catalog.Acquisition, error) {
	store := s.db.Store()
	acquisition := &catalog.Acquisition{}

	staged := make([]string, 0, 3)
	stage := func(r io.Reader, dst *string) error {
		if r == nil {
			return nil
		}
		locator, err := store.Put(ctx, r)
		if err != nil {
			return err
		}
		staged = append(staged, locator)
		*dst = locator
		return nil
	}

	if err := stage(metadata, &acquisition.MetadataLocator); err != nil {
		return nil, fmt.Errorf("failed to stage metadata payload: %w", err)
	}
	if err := stage(swir, &acquisition.SWIRLocator); err != nil {
		return nil, fmt.Errorf("failed to stage SWIR payload: %w", err)
	}
	if err := stage(vnir, &acquisition.VNIRLocator); err != nil {
		return nil, fmt.Errorf("failed to stage VNIR payload: %w", err)
	}

	err := s.db.Transaction().Run(func(session *persistence.Session) error {
		var experiment catalog.Experiment
		if err := session.First(&experiment, "code = ?", experimentCode); err != nil {
			return err
		}
		acquisition.ExperimentID = experiment.ID
		return session.Create(acquisition)
	})
	if err != nil {
		for _, locator := range staged {
			if derr := store.Delete(ctx, locator); derr != nil {
				s.logger.Warn("Failed to clean staged blob ", locator, ": ", derr)
			}
		}
		return nil, err
	}

	s.logger.Info("Ingested acquisition ", acquisition.ID, " into experiment ", experimentCode)
	return acquisition, nil
}

// ReadPayload resolves one payload slot of an acquisition back into bytes.
// An empty slot fails with catalog.ErrPayloadNotSet, a dangling locator with
// storage.ErrBlobNotFound.
func (s *CaptureService) ReadPayload(ctx context.Context, acquisitionID int64, kind PayloadKind) ([]byte, error) {
	var acquisition catalog.Acquisition
	err := s.db.Transaction().Run(func(session *persistence.Session) error {
		return session.First(&acquisition, acquisitionID)
	})
	if err != nil {
		return nil, err
	}

	switch kind {
	case PayloadMetadata:
		return acquisition.ReadMetadata(ctx)
	case PayloadSWIR:
		return acquisition.ReadSWIR(ctx)
	case PayloadVNIR:
		return acquisition.ReadVNIR(ctx)
	default:
		return nil, fmt.Errorf("unknown payload kind %q", kind)
	}
}

// ListByExperiment enumerates the acquisitions of one experiment.
func (s *CaptureService) ListByExperiment(ctx context.Context, experimentCode string) ([]catalog.Acquisition, error) {
	var acquisitions []catalog.Acquisition
	err := s.db.Transaction().Run(func(session *persistence.Session) error {
		var experiment catalog.Experiment
		if err := session.First(&experiment, "code = ?", experimentCode); err != nil {
			return err
		}
		return session.Find(&acquisitions, "experiment_id = ?", experiment.ID)
	})
	if err != nil {
		return nil, err
	}
	return acquisitions, nil
}
