package kv

import (
	"context"
	"errors"
	"os"
	"sort"
	"testing"
)

// testSQLiteStore creates a temporary SQLite-backed store.
func testSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	f, err := os.CreateTemp("", "redux-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		_ = os.Remove(dbPath)
		t.Fatalf("NewSQLiteStore: %v", err)
	}

	t.Cleanup(func() {
		_ = s.Close()
		_ = os.Remove(dbPath)
	})

	return s
}

func TestSQLiteStore_SetGetOverwrite(t *testing.T) {
	s := testSQLiteStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "a", []byte("first")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "a", []byte("second")); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}

	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("Get = %q, want %q", got, "second")
	}
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	s := testSQLiteStore(t)

	_, err := s.Get(context.Background(), "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing key: err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_Delete(t *testing.T) {
	s := testSQLiteStore(t)
	ctx := context.Background()

	_ = s.Set(ctx, "a", []byte("value"))
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete: err = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete missing key: %v", err)
	}
}

func TestSQLiteStore_Keys(t *testing.T) {
	s := testSQLiteStore(t)
	ctx := context.Background()

	entries := map[string]string{
		"content:meta:home":       "1",
		"content:versions:home":   "2",
		"content:meta:about":      "3",
		"slots:assignments":       "4",
		"events:2026-01-01-abc12": "5",
	}
	for k, v := range entries {
		if err := s.Set(ctx, k, []byte(v)); err != nil {
			t.Fatalf("Set %q: %v", k, err)
		}
	}

	keys, err := s.Keys(ctx, "content:")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	sort.Strings(keys)
	want := []string{"content:meta:about", "content:meta:home", "content:versions:home"}
	if len(keys) != len(want) {
		t.Fatalf("Keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}

	all, err := s.Keys(ctx, "")
	if err != nil {
		t.Fatalf("Keys(all): %v", err)
	}
	if len(all) != len(entries) {
		t.Errorf("Keys(\"\") returned %d keys, want %d", len(all), len(entries))
	}
}

func TestSQLiteStore_KeysExactPrefix(t *testing.T) {
	s := testSQLiteStore(t)
	ctx := context.Background()

	entries := []string{
		"content:\xff\xffhigh",
		"content:plain",
		"Content:cased",
		"cache[0]:entry",
		"cache[1]:entry",
	}
	for _, k := range entries {
		if err := s.Set(ctx, k, []byte("v")); err != nil {
			t.Fatalf("Set %q: %v", k, err)
		}
	}

	// Keys with bytes >= 0xff after the prefix still count as matches,
	// and matching is case-sensitive.
	keys, err := s.Keys(ctx, "content:")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	sort.Strings(keys)
	want := []string{"content:plain", "content:\xff\xffhigh"}
	if len(keys) != len(want) {
		t.Fatalf("Keys = %q, want %q", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}

	// Wildcard characters in the prefix match literally.
	keys, err = s.Keys(ctx, "cache[0]:")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 1 || keys[0] != "cache[0]:entry" {
		t.Errorf("Keys = %q, want [cache[0]:entry]", keys)
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	f, err := os.CreateTemp("", "redux-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()
	t.Cleanup(func() { _ = os.Remove(dbPath) })

	ctx := context.Background()

	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	if err := s.Set(ctx, "a", []byte("durable")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Values survive a close/reopen cycle
	s2, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s2.Close() }()

	got, err := s2.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if string(got) != "durable" {
		t.Errorf("Get after reopen = %q, want %q", got, "durable")
	}
}

func TestSQLiteStore_Closed(t *testing.T) {
	s := testSQLiteStore(t)
	_ = s.Close()

	if _, err := s.Get(context.Background(), "a"); !errors.Is(err, ErrClosed) {
		t.Errorf("Get after Close: err = %v, want ErrClosed", err)
	}
}
