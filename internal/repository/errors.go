package repository

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is wrapped per-entity when a lookup matches no row.
	ErrNotFound = errors.New("not found")

	// ErrConflict is wrapped when an insert or update violates a unique
	// constraint (invoice number, client email, user email).
	ErrConflict = errors.New("conflict")
)

// isUniqueViolation detects SQLite unique-constraint failures. The
// modernc driver exposes them only through the error text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
