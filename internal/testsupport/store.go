package testsupport

import (
	"context"
	"testing"

	"tidy/internal/config"
	"tidy/internal/undolog"
)

// MustOpenStore opens the configured undolog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) undolog.Store {
	t.Helper()

	store, err := undolog.Open(cfg, nil)
	if err != nil {
		t.Fatalf("undolog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustReadRecords returns every record in store, failing the test on error.
func MustReadRecords(t testing.TB, store undolog.Store) []undolog.Record {
	t.Helper()

	records, err := store.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("store.ReadAll: %v", err)
	}
	return records
}
