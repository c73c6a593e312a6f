package cache

import (
	"context"
	"testing"
	"time"
)

func TestStore_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore[string](time.Minute)
	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(ctx, "matches:2026-02-11", "value")
	if got, ok := store.Get(ctx, "matches:2026-02-11"); !ok || got != "value" {
		t.Fatalf("expected cached value, got=%q ok=%v", got, ok)
	}

	now = now.Add(time.Minute)
	if _, ok := store.Get(ctx, "matches:2026-02-11"); ok {
		t.Fatalf("expected entry to expire at ttl")
	}
	if store.Len() != 0 {
		t.Fatalf("expired entry should be removed on read, len=%d", store.Len())
	}
}

func TestStore_SetSweepsExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore[int](time.Second)
	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(ctx, "a", 1)
	store.Set(ctx, "b", 2)
	now = now.Add(2 * time.Second)
	store.Set(ctx, "c", 3)

	if store.Len() != 1 {
		t.Fatalf("expected only the fresh entry to remain, len=%d", store.Len())
	}
}

func TestStore_EmptyKeyIgnored(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore[string](0)
	store.Set(ctx, "", "value")
	if _, ok := store.Get(ctx, ""); ok {
		t.Fatalf("empty key must not be cached")
	}

	store.Set(ctx, "k", "v")
	store.Delete(ctx, "k")
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatalf("expected deleted key to be gone")
	}
}
