package cache

import "container/heap"

// ttlHeap implements heap.Interface over entries that carry an expiry,
// ordered by expires_at ascending with created_at as the tie-breaker.
type ttlHeap []*entry

func (h ttlHeap) Len() int { return len(h) }

func (h ttlHeap) Less(i, j int) bool {
	if h[i].expiresAt.Equal(h[j].expiresAt) {
		return h[i].createdAt.Before(h[j].createdAt)
	}
	return h[i].expiresAt.Before(h[j].expiresAt)
}

func (h ttlHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIndex = i
	h[j].heapIndex = j
}

func (h *ttlHeap) Push(x any) {
	e, _ := x.(*entry)
	e.heapIndex = len(*h)
	*h = append(*h, e)
}

func (h *ttlHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.heapIndex = -1
	*h = old[:n-1]
	return e
}

// ttlIndex implements evictionIndex for PolicyTTL: a min-heap
// of entries with an expiry, keyed by expires_at, plus a separate unordered
// reserve for entries with no expiry. The reserve is only eligible for
// eviction once the heap is exhausted — entries with no expiry sort last.
type ttlIndex struct {
	heap    ttlHeap
	reserve []*entry
}

func newTTLIndex() *ttlIndex {
	return &ttlIndex{heap: make(ttlHeap, 0)}
}

func (idx *ttlIndex) insert(e *entry) {
	if e.hasExpiry() {
		heap.Push(&idx.heap, e)
		return
	}
	idx.pushReserve(e)
}

func (idx *ttlIndex) pushReserve(e *entry) {
	e.reserveIndex = len(idx.reserve)
	idx.reserve = append(idx.reserve, e)
}

func (idx *ttlIndex) removeReserve(e *entry) {
	i := e.reserveIndex
	if i < 0 || i >= len(idx.reserve) || idx.reserve[i] != e {
		return
	}
	last := len(idx.reserve) - 1
	idx.reserve[i] = idx.reserve[last]
	idx.reserve[i].reserveIndex = i
	idx.reserve[last] = nil
	idx.reserve = idx.reserve[:last]
	e.reserveIndex = -1
}

func (idx *ttlIndex) remove(e *entry) {
	if e.hasExpiry() {
		if e.heapIndex >= 0 && e.heapIndex < len(idx.heap) && idx.heap[e.heapIndex] == e {
			heap.Remove(&idx.heap, e.heapIndex)
		}
		return
	}
	idx.removeReserve(e)
}

// touch handles both re-ranking within the heap (expiry changed) and moving
// an entry between the heap and the reserve (expiry set or cleared). Engine
// calls it from Get; Set of an existing key re-files the entry through
// remove and insert instead.
func (idx *ttlIndex) touch(e *entry) {
	inHeap := e.heapIndex >= 0 && e.heapIndex < len(idx.heap) && idx.heap[e.heapIndex] == e
	inReserve := e.reserveIndex >= 0 && e.reserveIndex < len(idx.reserve) && idx.reserve[e.reserveIndex] == e

	switch {
	case e.hasExpiry() && inHeap:
		heap.Fix(&idx.heap, e.heapIndex)
	case e.hasExpiry() && inReserve:
		idx.removeReserve(e)
		heap.Push(&idx.heap, e)
	case !e.hasExpiry() && inHeap:
		heap.Remove(&idx.heap, e.heapIndex)
		idx.pushReserve(e)
	case !e.hasExpiry() && inReserve:
		// No ordering within the reserve; nothing to do.
	}
}

// pickVictim returns the head of the TTL heap when non-empty; the reserve of
// no-expiry entries is only eligible once the heap is exhausted.
func (idx *ttlIndex) pickVictim() *entry {
	if len(idx.heap) > 0 {
		return idx.heap[0]
	}
	if len(idx.reserve) > 0 {
		return idx.reserve[0]
	}
	return nil
}

func (idx *ttlIndex) len() int {
	return len(idx.heap) + len(idx.reserve)
}

// peekHeapVictim returns the entry at the head of the TTL heap (the one
// with the soonest expiry) without removing it, or nil if the heap holds no
// TTL-bearing entries. Used by the proactive reaper's TTL-policy fast path
// to drain expired entries without falling through to the no-expiry
// reserve.
func (idx *ttlIndex) peekHeapVictim() *entry {
	if len(idx.heap) == 0 {
		return nil
	}
	return idx.heap[0]
}
