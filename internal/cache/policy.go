package cache

import "fmt"

// Policy selects the eviction ordering used by an Engine. The policy is
// fixed at construction time; switching policies at runtime is not
// supported.
type Policy int

const (
	// PolicyLRU evicts the least recently accessed entry first.
	PolicyLRU Policy = iota
	// PolicyLFU evicts the least frequently accessed entry first.
	PolicyLFU
	// PolicyTTL evicts the entry with the soonest expiration first.
	PolicyTTL
	// PolicySize evicts the largest entry first.
	PolicySize
)

// String implements fmt.Stringer for logging and config round-tripping.
func (p Policy) String() string {
	switch p {
	case PolicyLRU:
		return "lru"
	case PolicyLFU:
		return "lfu"
	case PolicyTTL:
		return "ttl"
	case PolicySize:
		return "size"
	default:
		return "unknown"
	}
}

// ParsePolicy parses the config-surface string form of a policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "lru", "":
		return PolicyLRU, nil
	case "lfu":
		return PolicyLFU, nil
	case "ttl":
		return PolicyTTL, nil
	case "size":
		return PolicySize, nil
	default:
		return 0, fmt.Errorf("cache: unknown policy %q", s)
	}
}

// evictionIndex is the polymorphic ordering structure behind a Policy.
// Each policy provides its own implementation; the Engine dispatches to
// whichever is active without knowing the concrete type.
//
// All methods assume the Engine's mutation region is already held by the
// caller — the index itself does no locking.
type evictionIndex interface {
	// insert registers a newly created entry.
	insert(e *entry)
	// remove deregisters an entry previously passed to insert.
	remove(e *entry)
	// touch notifies the index that e's ordering-relevant metadata changed
	// (accessed_at, access_count, expires_at, size_bytes depending on policy).
	touch(e *entry)
	// pickVictim returns the next eviction candidate without removing it,
	// or nil if the index is empty.
	pickVictim() *entry
	// len reports the number of entries currently indexed.
	len() int
}

func newEvictionIndex(p Policy) evictionIndex {
	switch p {
	case PolicyLRU:
		return newLRUIndex()
	case PolicyLFU:
		return newLFUIndex()
	case PolicyTTL:
		return newTTLIndex()
	case PolicySize:
		return newSizeIndex()
	default:
		return newLRUIndex()
	}
}
