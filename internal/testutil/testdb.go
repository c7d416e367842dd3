// Package testutil provides the shared test database, entity fixtures,
// and fault-injecting unit of work used across package tests.
package testutil

import (
	"database/sql"
	"testing"

	"github.com/harlow-digital/atelier/internal/db"
)

// NewTestDB opens a migrated in-memory database that is torn down with
// the test.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestUoW wraps the test database in a real unit of work.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
