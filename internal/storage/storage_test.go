package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupDatabaseStorageTest(t *testing.T) *Database {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	store, err := NewDatabase(db, time.Hour)
	if err != nil {
		t.Fatalf("new database storage failed: %v", err)
	}
	return store
}

func exerciseBackend(t *testing.T, provider Provider) {
	t.Helper()
	ctx := context.Background()
	a := provider.For("visitor-a")
	b := provider.For("visitor-b")

	if _, err := a.Get(ctx, "spongik_cart"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty get want ErrNotFound got %v", err)
	}
	if err := a.Set(ctx, "spongik_cart", []byte(`[1]`)); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := a.Set(ctx, "spongik_cart", []byte(`[1,2]`)); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	got, err := a.Get(ctx, "spongik_cart")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != `[1,2]` {
		t.Fatalf("value want [1,2] got %s", got)
	}
	if _, err := b.Get(ctx, "spongik_cart"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("namespaces must be isolated, got %v", err)
	}
	if err := a.Delete(ctx, "spongik_cart"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := a.Get(ctx, "spongik_cart"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted key want ErrNotFound got %v", err)
	}
}

func TestMemoryBackend(t *testing.T) {
	exerciseBackend(t, NewMemory(time.Hour))
}

func TestDatabaseBackend(t *testing.T) {
	exerciseBackend(t, setupDatabaseStorageTest(t))
}

func TestMemoryExpiry(t *testing.T) {
	store := NewMemory(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()
	backend := store.For("v")
	if err := backend.Set(ctx, "k", []byte("x")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := backend.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired entry want ErrNotFound got %v", err)
	}
	removed, err := store.PurgeExpired(ctx, now)
	if err != nil || removed != 1 {
		t.Fatalf("purge want 1 removed got %d err %v", removed, err)
	}
}

func TestDatabasePurgeExpired(t *testing.T) {
	store := setupDatabaseStorageTest(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	if err := store.For("v").Set(ctx, "k", []byte("x")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	removed, err := store.PurgeExpired(ctx, now.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("purge want 1 got %d", removed)
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	p, err := Open(Options{Driver: "memory"})
	if err != nil || p.Name() != DriverMemory {
		t.Fatalf("memory driver want ok got %v %v", p, err)
	}
	if _, err := Open(Options{Driver: "redis"}); !errors.Is(err, ErrRedisDisabled) {
		t.Fatalf("redis without init want ErrRedisDisabled got %v", err)
	}
	if _, err := Open(Options{Driver: "database"}); !errors.Is(err, ErrNilDB) {
		t.Fatalf("database without db want ErrNilDB got %v", err)
	}
	if _, err := Open(Options{Driver: "leveldb"}); err == nil {
		t.Fatalf("unknown driver should fail")
	}
}
