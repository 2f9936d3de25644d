package app

import (
	"context"

	"github.com/leliel12/ulrich/internal/domain/catalog"
	"github.com/leliel12/ulrich/internal/infrastructure/persistence"
	"github.com/leliel12/ulrich/internal/pkg/logger"
)

// ExperimentService manages experiments and their public codes.
type ExperimentService struct {
	db     *persistence.Database
	logger logger.Logger
}

// NewExperimentService creates a new ExperimentService instance.
func NewExperimentService(db *persistence.Database, logger logger.Logger) *ExperimentService {
	return &ExperimentService{db: db, logger: logger}
}

// Create inserts an experiment owned by the given user. The public code is
// generated at row construction and returned on the experiment.
func (s *ExperimentService) Create(ctx context.Context, ownerUsername string) (*catalog.Experiment, error) {
	experiment := &catalog.Experiment{}
	err := s.db.Transaction().Run(func(session *persistence.Session) error {
		var owner catalog.User
		if err := session.First(&owner, "username = ?", ownerUsername); err != nil {
			return err
		}
		experiment.OwnerID = owner.ID
		return session.Create(experiment)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Created experiment ", experiment.Code, " for ", ownerUsername)
	return experiment, nil
}

// GetByCode fetches one experiment by its public code.
func (s *ExperimentService) GetByCode(ctx context.Context, code string) (*catalog.Experiment, error) {
	var experiment catalog.Experiment
	err := s.db.Transaction().Run(func(session *persistence.Session) error {
		return session.First(&experiment, "code = ?", code)
	})
	if err != nil {
		return nil, err
	}
	return &experiment, nil
}

// ListByOwner enumerates the experiments owned by a user.
func (s *ExperimentService) ListByOwner(ctx context.Context, ownerUsername string) ([]catalog.Experiment, error) {
	var experiments []catalog.Experiment
	err := s.db.Transaction().Run(func(session *persistence.Session) error {
		var owner catalog.User
		if err := session.First(&owner, "username = ?", ownerUsername); err != nil {
			return err
		}
		return session.Find(&experiments, "owner_id = ?", owner.ID)
	})
	if err != nil {
		return nil, err
	}
	return experiments, nil
}
