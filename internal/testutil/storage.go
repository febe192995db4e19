package testutil

import (
	"testing"

	"databazaar/internal/bazaar"
	"databazaar/internal/database"
)

// NewTestStorage creates an empty in-memory store.
// The store is automatically closed when the test completes.
func NewTestStorage(t *testing.T) bazaar.Storage {
	t.Helper()

	s := database.NewMemoryStore()
	t.Cleanup(func() { s.Close() })
	return s
}

// NewTestSQLiteStorage creates an in-memory SQLite store with the schema applied.
// The store is automatically closed when the test completes.
func NewTestSQLiteStorage(t *testing.T) bazaar.Storage {
	t.Helper()

	s, err := database.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// NewTestService wires a ListingService over a fresh in-memory store.
func NewTestService(t *testing.T) (*bazaar.ListingService, bazaar.Storage) {
	t.Helper()

	s := NewTestStorage(t)
	return bazaar.NewListingService(s, s, bazaar.NewNopLogger()), s
}
