package catalog

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// User is a bare identity record. It owns zero or more experiments and
// carries no credential logic.
type User struct {
	SurrogateID

	Username string `gorm:"size:255;uniqueIndex;not null" json:"username" validate:"required,min=1,max=255"`
	Email    string `gorm:"size:255" json:"email,omitempty" validate:"omitempty,email"`
}

// Validate checks the business rules of the User entity.
func (u *User) Validate() error {
	if err := validator.New().Struct(u); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
