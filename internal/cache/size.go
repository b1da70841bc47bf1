package cache

import "container/heap"

// sizeHeap implements heap.Interface over entries ordered by size_bytes
// descending (largest first), with accessed_at ascending as the
// tie-breaker.
type sizeHeap []*entry

func (h sizeHeap) Len() int { return len(h) }

func (h sizeHeap) Less(i, j int) bool {
	if h[i].sizeBytes == h[j].sizeBytes {
		return h[i].accessedAt.Before(h[j].accessedAt)
	}
	return h[i].sizeBytes > h[j].sizeBytes
}

func (h sizeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIndex = i
	h[j].heapIndex = j
}

func (h *sizeHeap) Push(x any) {
	e, _ := x.(*entry)
	e.heapIndex = len(*h)
	*h = append(*h, e)
}

func (h *sizeHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.heapIndex = -1
	*h = old[:n-1]
	return e
}

// sizeIndex implements evictionIndex for PolicySize: the largest entry
// currently stored is always the next victim.
type sizeIndex struct {
	heap sizeHeap
}

func newSizeIndex() *sizeIndex {
	return &sizeIndex{heap: make(sizeHeap, 0)}
}

func (idx *sizeIndex) insert(e *entry) {
	heap.Push(&idx.heap, e)
}

func (idx *sizeIndex) remove(e *entry) {
	if e.heapIndex >= 0 && e.heapIndex < len(idx.heap) && idx.heap[e.heapIndex] == e {
		heap.Remove(&idx.heap, e.heapIndex)
	}
}

func (idx *sizeIndex) touch(e *entry) {
	if e.heapIndex >= 0 && e.heapIndex < len(idx.heap) {
		heap.Fix(&idx.heap, e.heapIndex)
	}
}

func (idx *sizeIndex) pickVictim() *entry {
	if len(idx.heap) == 0 {
		return nil
	}
	return idx.heap[0]
}

func (idx *sizeIndex) len() int {
	return len(idx.heap)
}
