package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Set(ctx, "bizspark_user", `{"id":"u1"}`); err != nil {
		t.Fatalf("Set err: %v", err)
	}
	got, err := store.Get(ctx, "bizspark_user")
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if got != `{"id":"u1"}` {
		t.Fatalf("unexpected value: %s", got)
	}

	if err := store.Remove(ctx, "bizspark_user"); err != nil {
		t.Fatalf("Remove err: %v", err)
	}
	if _, err := store.Get(ctx, "bizspark_user"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}

	if err := store.Remove(ctx, "never-set"); err != nil {
		t.Fatalf("Remove of absent key err: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "store.json"))
	if err != nil {
		t.Fatalf("NewFileStore err: %v", err)
	}
	exerciseStore(t, store)
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	ctx := context.Background()

	first, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore err: %v", err)
	}
	if err := first.Set(ctx, "bizspark_last_email", "a@b.c"); err != nil {
		t.Fatalf("Set err: %v", err)
	}

	second, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore err: %v", err)
	}
	got, err := second.Get(ctx, "bizspark_last_email")
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if got != "a@b.c" {
		t.Fatalf("unexpected value: %s", got)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("WriteFile err: %v", err)
	}
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore err: %v", err)
	}
	if _, err := store.Get(context.Background(), "k"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestNewFileStoreRequiresPath(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
