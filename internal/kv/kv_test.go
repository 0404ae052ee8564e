package kv

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

// runStoreContract exercises the Store behaviors every driver must share.
func runStoreContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "absent"); err != nil || ok {
		t.Fatalf("get absent = ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, "homagio:dataset", `{"version":1}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := store.Get(ctx, "homagio:dataset")
	if err != nil || !ok || got != `{"version":1}` {
		t.Fatalf("get = %q ok=%v err=%v", got, ok, err)
	}

	if err := store.Set(ctx, "homagio:dataset", `{"version":2}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _, _ = store.Get(ctx, "homagio:dataset")
	if got != `{"version":2}` {
		t.Fatalf("overwrite lost: %q", got)
	}

	deleted, err := store.Delete(ctx, "homagio:dataset")
	if err != nil || !deleted {
		t.Fatalf("delete = %v err=%v", deleted, err)
	}
	if _, ok, _ := store.Get(ctx, "homagio:dataset"); ok {
		t.Fatalf("value survived delete")
	}
	deleted, err = store.Delete(ctx, "homagio:dataset")
	if err != nil || deleted {
		t.Fatalf("second delete = %v err=%v, want (false, nil)", deleted, err)
	}
}

func TestMemoryStoreContract(t *testing.T) {
	store := NewMemory()
	runStoreContract(t, store)
	if store.Driver() != DriverMemory {
		t.Fatalf("driver = %q", store.Driver())
	}
}

func TestFilesystemStoreContract(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("new filesystem: %v", err)
	}
	runStoreContract(t, store)
	if store.Driver() != DriverFilesystem {
		t.Fatalf("driver = %q", store.Driver())
	}
}

func TestSQLiteStoreContract(t *testing.T) {
	store, err := NewSQLite(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	defer func() { _ = store.Close() }()
	runStoreContract(t, store)
	if store.Driver() != DriverSQLite {
		t.Fatalf("driver = %q", store.Driver())
	}
}

func TestSQLiteStorePersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	first, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = second.Close() }()
	got, ok, err := second.Get(ctx, "k")
	if err != nil || !ok || got != "v" {
		t.Fatalf("get after reopen = %q ok=%v err=%v", got, ok, err)
	}
}

func TestMemoryCapacity(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryWithCapacity(10)

	if err := store.Set(ctx, "k", "12345"); err != nil {
		t.Fatalf("within capacity: %v", err)
	}
	if err := store.Set(ctx, "k2", "123456789"); !errors.Is(err, ErrCapacity) {
		t.Fatalf("over capacity err = %v, want ErrCapacity", err)
	}
	// Replacing the existing key within budget still works.
	if err := store.Set(ctx, "k", "123456789"); err != nil {
		t.Fatalf("replace within capacity: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("len = %d", store.Len())
	}
}

func TestFilesystemRejectsTraversalKeys(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("new filesystem: %v", err)
	}
	ctx := context.Background()
	for _, key := range []string{"", "  ", "../escape", "/absolute"} {
		if err := store.Set(ctx, key, "v"); err == nil {
			t.Fatalf("key %q accepted", key)
		}
	}
}

func TestOpenSelectsDriverFromEnv(t *testing.T) {
	ctx := context.Background()

	t.Setenv("HOMAGIO_KV_DRIVER", "memory")
	store, err := Open(ctx)
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if store.Driver() != DriverMemory {
		t.Fatalf("driver = %q", store.Driver())
	}

	t.Setenv("HOMAGIO_KV_DRIVER", "fs")
	t.Setenv("HOMAGIO_KV_FS_ROOT", t.TempDir())
	store, err = Open(ctx)
	if err != nil {
		t.Fatalf("open fs: %v", err)
	}
	if store.Driver() != DriverFilesystem {
		t.Fatalf("driver = %q", store.Driver())
	}

	t.Setenv("HOMAGIO_KV_DRIVER", "bogus")
	if _, err := Open(ctx); err == nil {
		t.Fatalf("bogus driver accepted")
	}
}

func TestOpenDefaultsToSQLite(t *testing.T) {
	ctx := context.Background()
	t.Setenv("HOMAGIO_KV_DRIVER", "")
	t.Setenv("HOMAGIO_SQLITE_PATH", filepath.Join(t.TempDir(), "default.db"))

	store, err := Open(ctx)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if store.Driver() != DriverSQLite {
		t.Fatalf("driver = %q", store.Driver())
	}
	if s, ok := store.(*SQLite); ok {
		_ = s.Close()
	}
}
