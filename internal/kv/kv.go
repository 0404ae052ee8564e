// Package kv provides the host key/value primitive the dataset blob is
// persisted on: a synchronous string-keyed get/set store with swappable
// backends selected by environment variables.
package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Driver identifies a concrete key/value backend implementation.
type Driver string

const (
	DriverMemory     Driver = "memory"   // in-memory (tests / ephemeral)
	DriverFilesystem Driver = "fs"       // local filesystem (dev)
	DriverSQLite     Driver = "sqlite"   // embedded sqlite file (default)
	DriverPostgres   Driver = "postgres" // PostgreSQL server
	DriverS3         Driver = "s3"       // S3 / MinIO compatible
)

// Store is the persistence primitive: a string-keyed store with limited
// capacity that may reject writes. Callers treat write failure as a
// durability warning, not a fatal condition.
type Store interface {
	// Get retrieves the value at key. The second return reports presence.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value at key, replacing any previous value. May return
	// ErrCapacity when the backend cannot accept the write.
	Set(ctx context.Context, key, value string) error
	// Delete removes a key. Returns (false, nil) if not found.
	Delete(ctx context.Context, key string) (bool, error)
	// Driver returns the configured backend driver string.
	Driver() Driver
}

// ErrCapacity is returned by Set when the backend's capacity is exceeded.
var ErrCapacity = errors.New("kv: capacity exceeded")

// Open selects a Store implementation using environment variables.
// Defaults to sqlite when unset.
//
//	HOMAGIO_KV_DRIVER: memory|fs|sqlite|postgres|s3 (default sqlite)
//	HOMAGIO_SQLITE_PATH: path to sqlite file (default ./homagio.db)
//	HOMAGIO_KV_FS_ROOT: directory root when driver=fs (default ./kvdata)
//	HOMAGIO_POSTGRES_DSN: postgres DSN when driver=postgres
//	(S3 specific variables documented in s3.go)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("HOMAGIO_KV_DRIVER")
	if driver == "" {
		driver = string(DriverSQLite)
	}
	switch Driver(driver) {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFilesystem:
		return NewFilesystem(os.Getenv("HOMAGIO_KV_FS_ROOT"))
	case DriverSQLite:
		return NewSQLite(os.Getenv("HOMAGIO_SQLITE_PATH"))
	case DriverPostgres:
		return NewPostgres(ctx, os.Getenv("HOMAGIO_POSTGRES_DSN"))
	case DriverS3:
		return OpenS3FromEnv(ctx)
	default:
		return nil, fmt.Errorf("unknown kv driver %s", driver)
	}
}
