package vecore

import "container/heap"

// scoredID is one (similarity, id) pair kept by the top-K heap.
type scoredID struct {
	similarity float32
	id         int32
}

// topKHeap is a bounded min-heap keyed by similarity: the root always holds
// the smallest similarity currently kept, so a new candidate only needs to
// beat the root to earn a spot.
type topKHeap struct {
	k     int
	items []scoredID
}

func newTopKHeap(k int) *topKHeap {
	h := &topKHeap{k: k, items: make([]scoredID, 0, k)}
	heap.Init(h)
	return h
}

// consider pushes (similarity, id) if the heap isn't full yet, or replaces
// the current minimum if similarity beats it.
func (h *topKHeap) consider(similarity float32, id int32) {
	if h.k <= 0 {
		return
	}
	if len(h.items) < h.k {
		heap.Push(h, scoredID{similarity: similarity, id: id})
		return
	}
	if similarity > h.items[0].similarity {
		heap.Pop(h)
		heap.Push(h, scoredID{similarity: similarity, id: id})
	}
}

// drainSorted empties the heap and returns its contents sorted by
// similarity descending.
func (h *topKHeap) drainSorted() []scoredID {
	n := len(h.items)
	out := make([]scoredID, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(scoredID)
	}
	return out
}

// container/heap.Interface, min-heap on similarity.
func (h *topKHeap) Len() int            { return len(h.items) }
func (h *topKHeap) Less(i, j int) bool  { return h.items[i].similarity < h.items[j].similarity }
func (h *topKHeap) Swap(i, j int)       { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *topKHeap) Push(x any)          { h.items = append(h.items, x.(scoredID)) }
func (h *topKHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}
