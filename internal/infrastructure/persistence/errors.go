package persistence

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrDuplicateSchema indicates two fragments collide on their derived
	// table name.
	ErrDuplicateSchema = errors.New("duplicate schema name")

	// ErrSchemaCreate indicates the database catalog could not be created or
	// reached. Fatal to startup.
	ErrSchemaCreate = errors.New("schema creation failed")

	// ErrTransaction indicates a commit or rollback failure while leaving a
	// transaction scope.
	ErrTransaction = errors.New("transaction failure")

	// ErrConstraintViolation indicates a unique-field collision (username,
	// tag, experiment code) or a rejected delete of a row that still owns
	// children.
	ErrConstraintViolation = errors.New("constraint violation")
)

// TranslateError maps driver-level errors onto the package taxonomy so
// callers never match on driver message strings. Unknown errors pass
// through unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return errors.Join(ErrConstraintViolation, err)
	}

	// The sqlite and postgres drivers disagree on error types for unique
	// and foreign key violations; fall back to their stable message shapes.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"),
		strings.Contains(msg, "duplicate key value violates unique constraint"),
		strings.Contains(msg, "FOREIGN KEY constraint failed"),
		strings.Contains(msg, "violates foreign key constraint"):
		return errors.Join(ErrConstraintViolation, err)
	}
	return err
}
