package cache_test

import (
	"errors"
	"testing"
	"time"

	"github.com/GabrielNunesIT/cachecore/internal/cache"
)

func newTestEngine(t *testing.T, policy cache.Policy, maxSize int) *cache.Engine {
	t.Helper()
	cfg := cache.DefaultConfig()
	cfg.Policy = policy
	cfg.MaxSize = maxSize
	cfg.MaxBytes = 10_000_000
	cfg.CleanupInterval = 0
	e, err := cache.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func mustSet(t *testing.T, e *cache.Engine, key, value string) {
	t.Helper()
	if err := e.Set([]byte(key), []byte(value), nil); err != nil {
		t.Fatalf("Set(%q): %v", key, err)
	}
}

func TestEngineLRUEviction(t *testing.T) {
	e := newTestEngine(t, cache.PolicyLRU, 3)

	mustSet(t, e, "a", "1")
	time.Sleep(time.Millisecond)
	mustSet(t, e, "b", "2")
	time.Sleep(time.Millisecond)
	mustSet(t, e, "c", "3")
	time.Sleep(time.Millisecond)

	if _, err := e.Get([]byte("a")); err != nil {
		t.Fatalf("expected 'a' present, got %v", err)
	}

	time.Sleep(time.Millisecond)
	mustSet(t, e, "d", "4")

	if _, err := e.Get([]byte("b")); !errors.Is(err, cache.ErrNotFound) {
		t.Errorf("expected 'b' evicted, got err=%v", err)
	}

	for _, key := range []string{"a", "c", "d"} {
		if _, err := e.Get([]byte(key)); err != nil {
			t.Errorf("expected %q to remain, got %v", key, err)
		}
	}

	stats := e.Stats()
	if stats.Evictions != 1 {
		t.Errorf("expected 1 eviction, got %d", stats.Evictions)
	}
}

func TestEngineLRUNoReadsEvictsOldest(t *testing.T) {
	e := newTestEngine(t, cache.PolicyLRU, 3)

	mustSet(t, e, "a", "1")
	time.Sleep(time.Millisecond)
	mustSet(t, e, "b", "2")
	time.Sleep(time.Millisecond)
	mustSet(t, e, "c", "3")
	time.Sleep(time.Millisecond)
	mustSet(t, e, "d", "4")

	if _, err := e.Get([]byte("a")); !errors.Is(err, cache.ErrNotFound) {
		t.Errorf("expected 'a' evicted, got err=%v", err)
	}

	stats := e.Stats()
	if stats.Evictions != 1 {
		t.Errorf("expected 1 eviction, got %d", stats.Evictions)
	}
}

func TestEngineClearPreservesCounters(t *testing.T) {
	e := newTestEngine(t, cache.PolicyLRU, 3)

	mustSet(t, e, "a", "1")
	mustSet(t, e, "b", "2")
	mustSet(t, e, "c", "3")
	mustSet(t, e, "d", "4") // evicts "a"

	n, err := e.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 entries removed, got %d", n)
	}

	stats := e.Stats()
	if stats.CurrentSize != 0 {
		t.Errorf("expected current_size 0, got %d", stats.CurrentSize)
	}
	if stats.Evictions != 1 {
		t.Errorf("expected evictions to retain value 1, got %d", stats.Evictions)
	}
}

func TestEngineSetReplacesAndResetsAccessCount(t *testing.T) {
	e := newTestEngine(t, cache.PolicyLRU, 3)

	mustSet(t, e, "k", "small")
	mustSet(t, e, "k", "replaced")

	stats := e.Stats()
	if stats.CurrentSize != 1 {
		t.Errorf("expected current_size 1, got %d", stats.CurrentSize)
	}
	if stats.Sets != 2 {
		t.Errorf("expected sets=2, got %d", stats.Sets)
	}

	value, err := e.Get([]byte("k"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(value) != "replaced" {
		t.Errorf("expected 'replaced', got %q", value)
	}
}

func TestEngineSetGrowthEvictsToStayUnderMaxBytes(t *testing.T) {
	cfg := cache.DefaultConfig()
	cfg.MaxSize = 10
	cfg.MaxBytes = 10_000_000
	cfg.PerEntryOverheadBytes = 0
	cfg.CleanupInterval = 0
	e, err := cache.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(e.Close)

	sixMB := make([]byte, 6_000_000)
	mustSet(t, e, "a", string(sixMB))
	mustSet(t, e, "b", "small")

	if err := e.Set([]byte("b"), sixMB, nil); err != nil {
		t.Fatalf("Set(b, 6MB): %v", err)
	}

	stats := e.Stats()
	if stats.CurrentBytes > cfg.MaxBytes {
		t.Fatalf("current_bytes %d exceeds max_bytes %d after growing an existing key", stats.CurrentBytes, cfg.MaxBytes)
	}
	if stats.Evictions == 0 {
		t.Errorf("expected growing an existing key past budget to evict, got evictions=0")
	}

	if _, err := e.Get([]byte("a")); !errors.Is(err, cache.ErrNotFound) {
		t.Errorf("expected 'a' to have been evicted to make room for 'b', got err=%v", err)
	}
	value, err := e.Get([]byte("b"))
	if err != nil {
		t.Fatalf("Get(b): %v", err)
	}
	if len(value) != len(sixMB) {
		t.Errorf("expected 'b' to hold the grown 6MB value, got %d bytes", len(value))
	}
}

func TestEngineEntryTooLarge(t *testing.T) {
	cfg := cache.DefaultConfig()
	cfg.MaxBytes = 10
	cfg.CleanupInterval = 0
	e, err := cache.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(e.Close)

	err = e.Set([]byte("k"), []byte("this value is way too large for the budget"), nil)
	if !errors.Is(err, cache.ErrEntryTooLarge) {
		t.Fatalf("expected ErrEntryTooLarge, got %v", err)
	}

	stats := e.Stats()
	if stats.CurrentSize != 0 {
		t.Errorf("expected store unchanged, current_size=%d", stats.CurrentSize)
	}
}

func TestEngineTTLExpiryLazyOnGet(t *testing.T) {
	e := newTestEngine(t, cache.PolicyLRU, 3)

	ttl := 30 * time.Millisecond
	if err := e.Set([]byte("x"), []byte("v"), &ttl); err != nil {
		t.Fatalf("Set: %v", err)
	}

	time.Sleep(60 * time.Millisecond)

	if _, err := e.Get([]byte("x")); !errors.Is(err, cache.ErrNotFound) {
		t.Fatalf("expected expired miss, got %v", err)
	}

	stats := e.Stats()
	if stats.Expirations != 1 {
		t.Errorf("expected expirations=1, got %d", stats.Expirations)
	}
	if stats.Misses != 0 {
		t.Errorf("expected expiry not counted as a miss, misses=%d", stats.Misses)
	}
}

func TestEngineLFUEvictsLeastFrequentlyUsed(t *testing.T) {
	e := newTestEngine(t, cache.PolicyLFU, 2)

	mustSet(t, e, "a", "1")
	mustSet(t, e, "b", "2")

	if _, err := e.Get([]byte("a")); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Get([]byte("a")); err != nil {
		t.Fatal(err)
	}

	mustSet(t, e, "c", "3")

	if _, err := e.Get([]byte("a")); err != nil {
		t.Errorf("expected 'a' (frequently used) to survive, got %v", err)
	}
}

func TestEngineTTLPolicyEvictsSoonestExpiry(t *testing.T) {
	e := newTestEngine(t, cache.PolicyTTL, 2)

	longTTL := time.Hour
	shortTTL := time.Minute
	if err := e.Set([]byte("long"), []byte("v"), &longTTL); err != nil {
		t.Fatal(err)
	}
	if err := e.Set([]byte("short"), []byte("v"), &shortTTL); err != nil {
		t.Fatal(err)
	}

	mustSet(t, e, "third", "v") // breaches capacity, should evict "short"

	if _, err := e.Get([]byte("short")); !errors.Is(err, cache.ErrNotFound) {
		t.Errorf("expected 'short' evicted first, got %v", err)
	}
	if _, err := e.Get([]byte("long")); err != nil {
		t.Errorf("expected 'long' to survive, got %v", err)
	}
}

func TestEngineSizePolicyEvictsLargest(t *testing.T) {
	e := newTestEngine(t, cache.PolicySize, 2)

	mustSet(t, e, "small", "x")
	mustSet(t, e, "big", "xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx")

	mustSet(t, e, "third", "y")

	if _, err := e.Get([]byte("big")); !errors.Is(err, cache.ErrNotFound) {
		t.Errorf("expected largest value evicted first, got %v", err)
	}
	if _, err := e.Get([]byte("small")); err != nil {
		t.Errorf("expected 'small' to survive, got %v", err)
	}
}

func TestEngineKeysGlobPattern(t *testing.T) {
	e := newTestEngine(t, cache.PolicyLRU, 10)

	mustSet(t, e, "user:1", "a")
	mustSet(t, e, "user:2", "b")
	mustSet(t, e, "order:1", "c")

	keys, err := e.Keys("user:*", 10)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("expected 2 keys matching 'user:*', got %d (%v)", len(keys), keys)
	}
}

func TestEngineDeleteAndInvalidKey(t *testing.T) {
	e := newTestEngine(t, cache.PolicyLRU, 10)

	mustSet(t, e, "a", "1")

	ok, err := e.Delete([]byte("a"))
	if err != nil || !ok {
		t.Fatalf("expected delete to report true, got ok=%v err=%v", ok, err)
	}

	ok, err = e.Delete([]byte("a"))
	if err != nil || ok {
		t.Fatalf("expected second delete to report false, got ok=%v err=%v", ok, err)
	}

	if err := e.Set([]byte(""), []byte("v"), nil); !errors.Is(err, cache.ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey for empty key, got %v", err)
	}
}

func TestEngineRejectsOperationsAfterClose(t *testing.T) {
	e := newTestEngine(t, cache.PolicyLRU, 10)
	e.Close()

	if err := e.Set([]byte("a"), []byte("1"), nil); !errors.Is(err, cache.ErrShuttingDown) {
		t.Errorf("expected ErrShuttingDown, got %v", err)
	}
}
