package kv

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
)

func TestNewPostgresOpenFailure(t *testing.T) {
	orig := sqlOpen
	sqlOpen = func(string, string) (*sql.DB, error) { return nil, errors.New("boom") }
	defer func() { sqlOpen = orig }()

	if _, err := NewPostgres(context.Background(), ""); err == nil {
		t.Fatalf("open failure not surfaced")
	}
}

// TestPostgresStoreContract runs against a real server and is skipped unless
// HOMAGIO_POSTGRES_DSN is set.
func TestPostgresStoreContract(t *testing.T) {
	dsn := os.Getenv("HOMAGIO_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("HOMAGIO_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	store, err := NewPostgres(ctx, dsn)
	if err != nil {
		t.Fatalf("new postgres: %v", err)
	}
	defer func() { _ = store.Close() }()

	runStoreContract(t, store)
	if store.Driver() != DriverPostgres {
		t.Fatalf("driver = %q", store.Driver())
	}
}
