package app

import (
	"context"

	"github.com/leliel12/ulrich/internal/domain/catalog"
	"github.com/leliel12/ulrich/internal/infrastructure/persistence"
	"github.com/leliel12/ulrich/internal/pkg/logger"
)

// UserService manages bare identity records.
type UserService struct {
	db     *persistence.Database
	logger logger.Logger
}

// NewUserService creates a new UserService instance.
func NewUserService(db *persistence.Database, logger logger.Logger) *UserService {
	return &UserService{db: db, logger: logger}
}

// Create inserts a new user. Duplicate usernames fail with
// persistence.ErrConstraintViolation.
func (s *UserService) Create(ctx context.Context, username, email string) (*catalog.User, error) {
	user := &catalog.User{Username: username, Email: email}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	err := s.db.Transaction().Run(func(session *persistence.Session) error {
		return session.Create(user)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Created user ", user.Username)
	return user, nil
}

// GetByUsername fetches one user by its unique username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*catalog.User, error) {
	var user catalog.User
	err := s.db.Transaction().Run(func(session *persistence.Session) error {
		return session.First(&user, "username = ?", username)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List enumerates every user.
func (s *UserService) List(ctx context.Context) ([]catalog.User, error) {
	var users []catalog.User
	err := s.db.Transaction().Run(func(session *persistence.Session) error {
		return session.Find(&users)
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// TagService manages tagging labels.
type TagService struct {
	db     *persistence.Database
	logger logger.Logger
}

// NewTagService creates a new TagService instance.
func NewTagService(db *persistence.Database, logger logger.Logger) *TagService {
	return &TagService{db: db, logger: logger}
}

// Create inserts a new tag. The value is case-normalized on write; duplicate
// tags fail with persistence.ErrConstraintViolation.
func (s *TagService) Create(ctx context.Context, value string) (*catalog.Tag, error) {
	tag := &catalog.Tag{Tag: value}
	if err := tag.Validate(); err != nil {
		return nil, err
	}

	err := s.db.Transaction().Run(func(session *persistence.Session) error {
		return session.Create(tag)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Created tag ", tag.Tag)
	return tag, nil
}

// List enumerates every tag.
func (s *TagService) List(ctx context.Context) ([]catalog.Tag, error) {
	var tags []catalog.Tag
	err := s.db.Transaction().Run(func(session *persistence.Session) error {
		return session.Find(&tags)
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}
