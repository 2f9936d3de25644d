package catalog

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/lithammer/shortuuid/v4"
	"gorm.io/gorm"
)

// ErrCodeImmutable is returned when an update tries to change an experiment's
// public code after it has been assigned.
var ErrCodeImmutable = errors.New("experiment code is immutable once assigned")

// Experiment groups acquisitions under a short, URL-safe public code owned by
// a user. The code is generated once at row construction and never mutated.
type Experiment struct {
	SurrogateID
	Stamped

	Code    string `gorm:"size:30;uniqueIndex;not null" json:"code" validate:"omitempty,max=30"`
	OwnerID int64  `gorm:"not null;index" json:"owner_id" validate:"required"`
	Owner   User   `gorm:"foreignKey:OwnerID;constraint:OnDelete:RESTRICT" json:"-" validate:"-"`
}

// NewCode returns a short, URL-safe, globally-unique random code.
func NewCode() string {
	return shortuuid.New()
}

// BeforeCreate assigns the public code when it was not explicitly supplied.
// The generator runs at most once per row.
func (e *Experiment) BeforeCreate(tx *gorm.DB) error {
	if e.Code == "" {
		e.Code = NewCode()
	}
	return nil
}

// BeforeUpdate rejects writes that would change the code column. Column
// updates are checked against the statement; full-struct saves carry the
// model itself, so those are compared with the persisted row.
func (e *Experiment) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("Code") {
		return ErrCodeImmutable
	}

	if e.ID == 0 {
		return nil
	}
	var current Experiment
	err := tx.Session(&gorm.Session{NewDB: true}).Select("code").First(&current, e.ID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if current.Code != "" && e.Code != current.Code {
		return ErrCodeImmutable
	}
	return nil
}

// Validate checks the business rules of the Experiment entity.
func (e *Experiment) Validate() error {
	if err := validator.New().Struct(e); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
