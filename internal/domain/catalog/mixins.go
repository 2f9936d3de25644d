package catalog

import "time"

// SurrogateID is the shared identity field group. Every entity kind gets an
// auto-assigned integer identity, monotonic per kind.
type SurrogateID struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`
}

// Stamped is the shared creation-timestamp field group. GORM fills CreatedAt
// at insertion time.
type Stamped struct {
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
