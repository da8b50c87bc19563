package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	if _, err := s.Load(ctx, "test", "k1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load() on empty store error = %v, want ErrNotFound", err)
	}
	if err := s.Save(ctx, "test", "k1", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Save(ctx, "test", "k1", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("Save() overwrite error = %v", err)
	}
	got, err := s.Load(ctx, "test", "k1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(got) != `{"v":2}` {
		t.Errorf("Load() = %s, want the last saved value", got)
	}
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	testStore(t, s)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "test_k1.json" {
		t.Errorf("cache dir holds %v, want only test_k1.json", entries)
	}
}

func TestFileStore_CreatesDir(t *testing.T) {
	s := NewFileStore(t.TempDir() + "/nested/cache")
	if err := s.Save(context.Background(), "n", "k", []byte("{}")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
}

func TestNewFileStore_DefaultDir(t *testing.T) {
	if got := NewFileStore("").Dir; got != DefaultDir() {
		t.Errorf("Dir = %q, want %q", got, DefaultDir())
	}
}

// TestRedisStore runs against a live server when YNAMAZON_TEST_REDIS_ADDR is set.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("YNAMAZON_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("YNAMAZON_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	s, err := NewRedisStore(ctx, addr, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	s.rdb.Del(ctx, redisKey("test", "k1"))
	testStore(t, s)
}
