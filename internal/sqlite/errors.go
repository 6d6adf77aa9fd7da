package sqlite

import (
	"strings"

	"github.com/rpggio/cadence/internal/repository"
)

// constraintError translates SQLite constraint failures into repository
// errors. It returns nil for any other error.
func constraintError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return repository.ErrConflict
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return repository.ErrForeignKeyViolation
	default:
		return nil
	}
}
