package cache

import "container/heap"

// lfuHeap implements heap.Interface over entries ordered by access_count
// ascending, with accessed_at ascending as the tie-breaker.
type lfuHeap []*entry

func (h lfuHeap) Len() int { return len(h) }

func (h lfuHeap) Less(i, j int) bool {
	if h[i].accessCount == h[j].accessCount {
		return h[i].accessedAt.Before(h[j].accessedAt)
	}
	return h[i].accessCount < h[j].accessCount
}

func (h lfuHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIndex = i
	h[j].heapIndex = j
}

func (h *lfuHeap) Push(x any) {
	e, _ := x.(*entry)
	e.heapIndex = len(*h)
	*h = append(*h, e)
}

func (h *lfuHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.heapIndex = -1
	*h = old[:n-1]
	return e
}

// lfuIndex implements evictionIndex for PolicyLFU. pickVictim is a peek at
// the heap root, which container/heap guarantees is the minimum element.
type lfuIndex struct {
	heap lfuHeap
}

func newLFUIndex() *lfuIndex {
	return &lfuIndex{heap: make(lfuHeap, 0)}
}

func (idx *lfuIndex) insert(e *entry) {
	heap.Push(&idx.heap, e)
}

func (idx *lfuIndex) remove(e *entry) {
	if e.heapIndex >= 0 && e.heapIndex < len(idx.heap) && idx.heap[e.heapIndex] == e {
		heap.Remove(&idx.heap, e.heapIndex)
	}
}

func (idx *lfuIndex) touch(e *entry) {
	if e.heapIndex >= 0 && e.heapIndex < len(idx.heap) {
		heap.Fix(&idx.heap, e.heapIndex)
	}
}

func (idx *lfuIndex) pickVictim() *entry {
	if len(idx.heap) == 0 {
		return nil
	}
	return idx.heap[0]
}

func (idx *lfuIndex) len() int {
	return len(idx.heap)
}
