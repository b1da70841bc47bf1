package cache

import "time"

// Key is an opaque, non-empty byte string bounded by MaxKeyLength.
type Key = []byte

// Value is an opaque byte sequence. The engine never interprets its
// contents, only its length.
type Value = []byte

// DefaultMaxKeyLength is the default upper bound on key length in bytes.
const DefaultMaxKeyLength = 1024

// DefaultPerEntryOverheadBytes is the fixed per-entry bookkeeping cost
// charged against the byte budget on top of key+value length. It is an
// estimate, not a measurement: implementers should expect actual process
// RSS to drift from the running total this constant feeds into.
const DefaultPerEntryOverheadBytes = 200

// entry is the unit of storage. It holds both the data and the metadata an
// eviction index needs to order it, plus bookkeeping fields owned by
// whichever index implementation is active (list element, heap index).
type entry struct {
	key       string
	value     []byte
	createdAt time.Time
	accessedAt time.Time
	accessCount uint64
	expiresAt time.Time // zero means no expiry
	sizeBytes int

	// heapIndex is maintained by container/heap for LFU/TTL/SIZE indexes.
	// listElem is maintained by container/list for the LRU index.
	// reserveIndex is maintained by the TTL index's no-expiry reserve slice.
	heapIndex    int
	listElem     *listElement
	reserveIndex int
}

func (e *entry) hasExpiry() bool {
	return !e.expiresAt.IsZero()
}

func (e *entry) expired(now time.Time) bool {
	return e.hasExpiry() && !e.expiresAt.After(now)
}

// estimateSize computes the size_bytes estimate: key length plus value
// length plus a fixed per-entry overhead.
func estimateSize(key string, value []byte, overhead int) int {
	return len(key) + len(value) + overhead
}

// Entry is a read-only snapshot of an entry's data and metadata. No public
// engine operation returns it at present (Stats returns counters and Keys
// returns key strings).
type Entry struct {
	Key         string
	Value       []byte
	CreatedAt   time.Time
	AccessedAt  time.Time
	AccessCount uint64
	ExpiresAt   time.Time
	SizeBytes   int
}

func (e *entry) snapshot() Entry {
	return Entry{
		Key:         e.key,
		Value:       e.value,
		CreatedAt:   e.createdAt,
		AccessedAt:  e.accessedAt,
		AccessCount: e.accessCount,
		ExpiresAt:   e.expiresAt,
		SizeBytes:   e.sizeBytes,
	}
}
