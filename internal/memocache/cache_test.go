package memocache

import (
	"fmt"
	"testing"
	"time"
)

func TestStoreAndGet(t *testing.T) {
	cache := New[string]()
	cache.Store("video1", "transcript text")

	got, ok := cache.Get("video1")
	if !ok {
		t.Fatal("expected hit")
	}
	if got != "transcript text" {
		t.Fatalf("got %q", got)
	}

	if _, ok := cache.Get("missing"); ok {
		t.Fatal("expected miss for unknown key")
	}
}

func TestExpiryUsesInjectedClock(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cache := New[int](WithClock[int](func() time.Time { return now }))

	cache.Store("k", 42)

	now = now.Add(59 * time.Minute)
	if _, ok := cache.Get("k"); !ok {
		t.Fatal("entry expired too early")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := cache.Get("k"); ok {
		t.Fatal("entry should have expired after one hour")
	}
	if cache.Len() != 0 {
		t.Fatalf("expired entry not removed, len=%d", cache.Len())
	}
}

func TestEvictsOldestWhenFull(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cache := New[int](WithClock[int](func() time.Time { return now }))

	for i := 0; i < 25; i++ {
		cache.Store(fmt.Sprintf("key%02d", i), i)
		now = now.Add(time.Second)
	}

	if cache.Len() != DefaultMaxEntries {
		t.Fatalf("len = %d, want %d", cache.Len(), DefaultMaxEntries)
	}
	// The five oldest entries were evicted.
	for i := 0; i < 5; i++ {
		if _, ok := cache.Get(fmt.Sprintf("key%02d", i)); ok {
			t.Fatalf("key%02d should have been evicted", i)
		}
	}
	for i := 5; i < 25; i++ {
		if _, ok := cache.Get(fmt.Sprintf("key%02d", i)); !ok {
			t.Fatalf("key%02d missing", i)
		}
	}
}

func TestStorePurgesExpiredEntries(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cache := New[int](WithClock[int](func() time.Time { return now }))

	cache.Store("old", 1)

	now = now.Add(time.Hour + time.Minute)
	cache.Store("fresh", 2)

	if cache.Len() != 1 {
		t.Fatalf("len = %d, want expired entry purged on write", cache.Len())
	}
	if _, ok := cache.Get("fresh"); !ok {
		t.Fatal("fresh entry missing")
	}
}

func TestStoreExistingKeyDoesNotEvict(t *testing.T) {
	cache := New[int](WithMaxEntries[int](2))
	cache.Store("a", 1)
	cache.Store("b", 2)
	cache.Store("a", 3)

	if cache.Len() != 2 {
		t.Fatalf("len = %d, want 2", cache.Len())
	}
	if got, _ := cache.Get("a"); got != 3 {
		t.Fatalf("a = %d, want 3", got)
	}
	if _, ok := cache.Get("b"); !ok {
		t.Fatal("b should still be present")
	}
}

func TestInvalidateAndClear(t *testing.T) {
	cache := New[string]()
	cache.Store("a", "1")
	cache.Store("b", "2")

	cache.Invalidate("a")
	if _, ok := cache.Get("a"); ok {
		t.Fatal("a should be gone")
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Fatalf("len = %d after Clear", cache.Len())
	}
}
