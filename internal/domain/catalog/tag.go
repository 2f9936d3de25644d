package catalog

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Tag is a tagging label. The tag value is case-normalized to upper-case on
// every write, not only at creation.
type Tag struct {
	SurrogateID

	Tag string `gorm:"size:255;uniqueIndex" json:"tag" validate:"required,min=1,max=255"`
}

// NormalizeTag upper-cases a tag value. Idempotent.
func NormalizeTag(value string) string {
	return strings.ToUpper(value)
}

// BeforeSave normalizes the tag value on every create and update. Map-based
// update statements are rewritten in place so no write path can bypass the
// normalization.
func (t *Tag) BeforeSave(tx *gorm.DB) error {
	t.Tag = NormalizeTag(t.Tag)

	if dest, ok := tx.Statement.Dest.(map[string]any); ok {
		for key, value := range dest {
			if !strings.EqualFold(key, "tag") {
				continue
			}
			if s, ok := value.(string); ok {
				tx.Statement.SetColumn(key, NormalizeTag(s))
			}
		}
	}
	return nil
}

// Validate checks the business rules of the Tag entity.
func (t *Tag) Validate() error {
	if err := validator.New().Struct(t); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
