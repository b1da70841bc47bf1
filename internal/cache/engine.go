// Package cache implements the cache engine core: a concurrent
// key-addressable store (store.go), a family of pluggable eviction indexes
// (lru.go, lfu.go, ttl.go, size.go), a background expiry reaper (reaper.go),
// and the statistics collector (stats.go), all orchestrated by Engine.
package cache

import (
	"fmt"
	"sync"
	"time"
)

// Config is the engine's construction-time configuration surface. It is
// consumed once, at New; policies cannot be switched at runtime.
type Config struct {
	// MaxSize is the maximum number of entries the engine will hold.
	MaxSize int
	// MaxBytes is the maximum total estimated byte footprint.
	MaxBytes int
	// Policy selects the eviction ordering.
	Policy Policy
	// CleanupInterval is how often the proactive reaper sweeps for expired
	// entries. Zero disables the background reaper; lazy expiry on Get
	// still applies.
	CleanupInterval time.Duration
	// PerEntryOverheadBytes is the fixed bookkeeping cost charged per entry
	// on top of key+value length when estimating size_bytes.
	PerEntryOverheadBytes int
	// DefaultTTL is applied to a Set that omits an explicit ttl for a new
	// key. Zero means entries never expire by default.
	DefaultTTL time.Duration
	// MaxKeyLength bounds key length; Set/Get/Delete reject longer keys
	// with ErrInvalidKey.
	MaxKeyLength int
	// ReapBatchSize bounds how many entries the proactive reaper inspects
	// per lock acquisition, so a sweep never stalls foreground operations
	// for long.
	ReapBatchSize int
}

// DefaultConfig returns the engine's out-of-the-box configuration.
func DefaultConfig() Config {
	return Config{
		MaxSize:               10000,
		MaxBytes:              512 << 20,
		Policy:                PolicyLRU,
		CleanupInterval:       60 * time.Second,
		PerEntryOverheadBytes: DefaultPerEntryOverheadBytes,
		MaxKeyLength:          DefaultMaxKeyLength,
		ReapBatchSize:         1024,
	}
}

func (c Config) validate() error {
	if c.MaxSize <= 0 {
		return fmt.Errorf("cache: max_size must be positive, got %d", c.MaxSize)
	}
	if c.MaxBytes <= 0 {
		return fmt.Errorf("cache: max_bytes must be positive, got %d", c.MaxBytes)
	}
	if c.MaxKeyLength <= 0 {
		return fmt.Errorf("cache: max_key_length must be positive, got %d", c.MaxKeyLength)
	}
	return nil
}

// Engine orchestrates the entry store, the eviction index, and the
// statistics collector behind a single public operation set, protecting
// all three with one logical exclusive region per mutation.
type Engine struct {
	cfg Config

	mu     sync.Mutex
	store  *store
	index  evictionIndex
	stats  *stats
	closed bool

	reaper *reaper
}

// New constructs an Engine. The background reaper is started immediately if
// cfg.CleanupInterval is positive.
func New(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:   cfg,
		store: newStore(),
		index: newEvictionIndex(cfg.Policy),
		stats: newStats(),
	}

	if cfg.CleanupInterval > 0 {
		e.reaper = newReaper(e, cfg.CleanupInterval)
		e.reaper.start()
	}

	return e, nil
}

func validateKey(key []byte, maxLen int) error {
	if len(key) == 0 || len(key) > maxLen {
		return ErrInvalidKey
	}
	return nil
}

// Get retrieves a value. A key that is absent, or present but expired,
// returns ErrNotFound; an expired key is removed synchronously and counted
// as an expiration, not a miss.
func (e *Engine) Get(key []byte) ([]byte, error) {
	if err := validateKey(key, e.cfg.MaxKeyLength); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrShuttingDown
	}

	k := string(key)
	ent, ok := e.store.get(k)
	if !ok {
		e.stats.misses++
		return nil, ErrNotFound
	}

	now := time.Now()
	if ent.expired(now) {
		e.removeEntryLocked(ent)
		e.stats.expirations++
		return nil, ErrNotFound
	}

	ent.accessedAt = now
	ent.accessCount++
	e.index.touch(ent)
	e.stats.hits++

	value := make([]byte, len(ent.value))
	copy(value, ent.value)
	return value, nil
}

// Set inserts or updates a key. ttl is a pointer so the engine can
// distinguish "omitted" from "explicitly zero": nil means omitted. On
// insert, an omitted ttl falls back to cfg.DefaultTTL. On update of an
// existing key, an omitted ttl clears any prior expiry instead of
// reapplying the default. A non-nil ttl must be strictly positive
// (ErrInvalidTTL otherwise) and always wins regardless of insert vs update.
func (e *Engine) Set(key, value []byte, ttl *time.Duration) error {
	if err := validateKey(key, e.cfg.MaxKeyLength); err != nil {
		return err
	}
	if ttl != nil && *ttl <= 0 {
		return ErrInvalidTTL
	}

	k := string(key)
	size := estimateSize(k, value, e.cfg.PerEntryOverheadBytes)
	if size > e.cfg.MaxBytes {
		return ErrEntryTooLarge
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrShuttingDown
	}

	storedValue := make([]byte, len(value))
	copy(storedValue, value)
	now := time.Now()

	if existing, ok := e.store.get(k); ok {
		oldValue, oldSize, oldAccessedAt := existing.value, existing.sizeBytes, existing.accessedAt
		oldAccessCount, oldExpiresAt := existing.accessCount, existing.expiresAt

		// Growing an existing value can push current_bytes over max_bytes
		// even though current_size doesn't change. Pull the entry being
		// updated out of the index first (while its metadata still matches
		// where the index filed it) so the eviction loop can't pick it as its
		// own victim, then reinsert it once the budget is restored.
		e.index.remove(existing)

		delta := size - existing.sizeBytes
		existing.value = storedValue
		existing.sizeBytes = size
		existing.accessedAt = now
		existing.accessCount = 1
		existing.expiresAt = resolveUpdateExpiry(ttl, now)
		e.store.resize(delta)

		for e.store.totalBytes() > e.cfg.MaxBytes {
			if !e.evictOneLocked() {
				break
			}
		}

		if e.store.totalBytes() > e.cfg.MaxBytes {
			// Couldn't free enough room even after evicting everything else;
			// roll back to the prior value so the entry stays within budget.
			e.store.resize(-delta)
			existing.value = oldValue
			existing.sizeBytes = oldSize
			existing.accessedAt = oldAccessedAt
			existing.accessCount = oldAccessCount
			existing.expiresAt = oldExpiresAt
			e.index.insert(existing)
			return ErrCapacityExceeded
		}

		e.index.insert(existing)
		e.stats.sets++
		return nil
	}

	for e.store.count()+1 > e.cfg.MaxSize || e.store.totalBytes()+size > e.cfg.MaxBytes {
		if !e.evictOneLocked() {
			break
		}
	}

	if e.store.count()+1 > e.cfg.MaxSize || e.store.totalBytes()+size > e.cfg.MaxBytes {
		return ErrCapacityExceeded
	}

	ent := &entry{
		key:          k,
		value:        storedValue,
		createdAt:    now,
		accessedAt:   now,
		accessCount:  1,
		expiresAt:    resolveInsertExpiry(ttl, now, e.cfg.DefaultTTL),
		sizeBytes:    size,
		heapIndex:    -1,
		reserveIndex: -1,
	}
	e.store.put(ent)
	e.index.insert(ent)
	e.stats.sets++
	return nil
}

func resolveInsertExpiry(ttl *time.Duration, now time.Time, defaultTTL time.Duration) time.Time {
	switch {
	case ttl != nil:
		return now.Add(*ttl)
	case defaultTTL > 0:
		return now.Add(defaultTTL)
	default:
		return time.Time{}
	}
}

func resolveUpdateExpiry(ttl *time.Duration, now time.Time) time.Time {
	if ttl == nil {
		return time.Time{}
	}
	return now.Add(*ttl)
}

// Delete removes a key, reporting whether it was present.
func (e *Engine) Delete(key []byte) (bool, error) {
	if err := validateKey(key, e.cfg.MaxKeyLength); err != nil {
		return false, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return false, ErrShuttingDown
	}

	ent, ok := e.store.get(string(key))
	if !ok {
		return false, nil
	}

	e.removeEntryLocked(ent)
	e.stats.deletes++
	return true, nil
}

// Clear removes all entries and returns the count removed. Statistics
// counters other than current_size/current_bytes are not reset.
func (e *Engine) Clear() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return 0, ErrShuttingDown
	}

	n := e.store.clear()
	e.index = newEvictionIndex(e.cfg.Policy)
	return n, nil
}

// Keys returns an unordered sample of up to limit keys matching the
// optional glob pattern. Expired entries encountered during the scan are
// removed lazily and excluded from the result.
func (e *Engine) Keys(pattern string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 1000
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrShuttingDown
	}

	now := time.Now()
	result := make([]string, 0, limit)
	var expired []*entry

	for k, ent := range e.store.items {
		if ent.expired(now) {
			expired = append(expired, ent)
			continue
		}
		if pattern != "" && !globMatch(pattern, k) {
			continue
		}
		result = append(result, k)
		if len(result) >= limit {
			break
		}
	}

	for _, ent := range expired {
		e.removeEntryLocked(ent)
		e.stats.expirations++
	}

	return result, nil
}

// Stats returns a consistent snapshot of the statistics collector:
// current_size/current_bytes are mutually consistent with each other,
// though the snapshot is not required to be linearizable with the
// counters describing individual completed operations.
func (e *Engine) Stats() Statistics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats.snapshot(e.store.count(), e.store.totalBytes())
}

// Close signals the reaper to stop after its current batch and rejects new
// operations with ErrShuttingDown. In-flight operations that already
// entered the mutation region complete normally.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	if e.reaper != nil {
		e.reaper.stop()
	}
}

// removeEntryLocked deregisters an entry from the store and index. Callers
// must hold e.mu. This is the sole state-mutating primitive for entry
// departure — delete, eviction, and expiry all funnel through it so
// invariants and statistics stay coherent.
func (e *Engine) removeEntryLocked(ent *entry) {
	e.index.remove(ent)
	e.store.delete(ent.key)
}

// evictOneLocked removes one entry. Under PolicyTTL it first drains the TTL
// heap's head if that entry has expired (counted as an expiration); under
// the other policies no expiry check is made here. Otherwise it evicts the
// policy's chosen victim. Returns false if nothing could be removed
// (the index is empty), which lets Set detect a residual
// capacity-exceeded condition instead of looping forever.
func (e *Engine) evictOneLocked() bool {
	now := time.Now()

	if ttlIdx, ok := e.index.(*ttlIndex); ok {
		if head := ttlIdx.peekHeapVictim(); head != nil && head.expired(now) {
			e.removeEntryLocked(head)
			e.stats.expirations++
			return true
		}
	}

	victim := e.index.pickVictim()
	if victim == nil {
		return false
	}

	e.removeEntryLocked(victim)
	e.stats.evictions++
	return true
}
