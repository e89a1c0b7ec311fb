// Package testutil provides shared test helpers for setting up databases.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/laguz/internal/store"
)

// TestStore creates a temporary SQLite database that is automatically cleaned up.
func TestStore(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "laguz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
