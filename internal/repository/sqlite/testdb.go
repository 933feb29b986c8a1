package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/spec-kit/lostfound-service/internal/persistence"
	"github.com/spec-kit/lostfound-service/internal/repository"
)

// NewTestDB creates a fresh in-memory SQLite database with the schema applied.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := persistence.OpenSQLite(":memory:", nil)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := EnsureSchema(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("creating test database schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}

// NewTestStore wraps NewTestDB in a Store.
func NewTestStore(t *testing.T) repository.Store {
	t.Helper()
	return New(NewTestDB(t))
}
