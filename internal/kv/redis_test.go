package kv

import (
	"context"
	"errors"
	"os"
	"testing"
)

// skipIfNoRedis skips the test if Redis is not configured.
func skipIfNoRedis(t *testing.T) string {
	url := os.Getenv("REDUX_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: REDUX_TEST_REDIS_URL not set")
	}
	return url
}

func TestRedisStore_Basic(t *testing.T) {
	url := skipIfNoRedis(t)

	s, err := NewRedisStoreFromURL(url, "redux-test:")
	if err != nil {
		t.Fatalf("NewRedisStoreFromURL: %v", err)
	}
	defer func() { _ = s.Close() }()

	ctx := context.Background()

	key := "test-key"
	value := []byte("test-value")
	t.Cleanup(func() { _ = s.Delete(ctx, key) })

	if err := s.Set(ctx, key, value); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(value) {
		t.Errorf("Get = %q, want %q", got, value)
	}

	keys, err := s.Keys(ctx, "test-")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	found := false
	for _, k := range keys {
		if k == key {
			found = true
		}
	}
	if !found {
		t.Errorf("Keys(%q) = %v, want to contain %q", "test-", keys, key)
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete: err = %v, want ErrNotFound", err)
	}
}

func TestRedisStore_RequiresURL(t *testing.T) {
	if _, err := NewRedisStore(RedisStoreOptions{}); err == nil {
		t.Error("NewRedisStore with empty URL should fail")
	}
}
