package persistence

import (
	"errors"
	"strings"

	"github.com/finvoice/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps driver-level errors onto the domain error taxonomy.
// Absence and tenant mismatch both surface as ErrNotFound upstream; the
// distinction never leaves the persistence layer.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	if isUniqueViolation(err) {
		return shared.ErrAlreadyExists
	}
	return err
}

// isUniqueViolation detects unique-constraint violations for postgres
// (SQLSTATE 23505) and sqlite (used by the test fixtures).
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
