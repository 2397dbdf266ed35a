package db

import (
	"database/sql"
	"testing"
)

// NewTestDB returns an in-memory database with the schema and migrations
// applied, closed when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := EnsureSchema(database); err != nil {
		t.Fatalf("creating schema: %v", err)
	}
	if err := Migrate(database); err != nil {
		t.Fatalf("applying migrations: %v", err)
	}

	return database
}
