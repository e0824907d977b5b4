// Package rank holds the bounded top-N selection used by queries: a binary
// min-heap over an injected comparator and the ranking orders for matches.
package rank

// Heap is a binary min-heap ordered by cmp. cmp(a, b) < 0 means a sits
// closer to the root than b.
type Heap[T any] struct {
	items []T
	cmp   func(a, b T) int
}

// NewHeap returns an empty heap with room for capacity items.
func NewHeap[T any](cmp func(a, b T) int, capacity int) *Heap[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Heap[T]{items: make([]T, 0, capacity), cmp: cmp}
}

// Len returns the number of items.
func (h *Heap[T]) Len() int { return len(h.items) }

// Peek returns the root without removing it.
func (h *Heap[T]) Peek() (T, bool) {
	if len(h.items) == 0 {
		var zero T
		return zero, false
	}
	return h.items[0], true
}

// Push adds v and bubbles it up.
func (h *Heap[T]) Push(v T) {
	h.items = append(h.items, v)
	h.up(len(h.items) - 1)
}

// Pop removes and returns the root.
func (h *Heap[T]) Pop() (T, bool) {
	var zero T
	n := len(h.items)
	if n == 0 {
		return zero, false
	}
	top := h.items[0]
	h.items[0] = h.items[n-1]
	h.items[n-1] = zero
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.down(0)
	}
	return top, true
}

// ReplaceTop overwrites the root with v and restores the heap with a single
// sift down. On an empty heap it behaves like Push.
func (h *Heap[T]) ReplaceTop(v T) {
	if len(h.items) == 0 {
		h.items = append(h.items, v)
		return
	}
	h.items[0] = v
	h.down(0)
}

// ToSlice returns an unordered copy of the items.
func (h *Heap[T]) ToSlice() []T {
	out := make([]T, len(h.items))
	copy(out, h.items)
	return out
}

func (h *Heap[T]) up(j int) {
	for j > 0 {
		parent := (j - 1) / 2
		if h.cmp(h.items[j], h.items[parent]) >= 0 {
			break
		}
		h.items[j], h.items[parent] = h.items[parent], h.items[j]
		j = parent
	}
}

func (h *Heap[T]) down(i int) {
	n := len(h.items)
	for {
		left := 2*i + 1
		if left >= n {
			return
		}
		smallest := i
		if h.cmp(h.items[left], h.items[smallest]) < 0 {
			smallest = left
		}
		if right := left + 1; right < n && h.cmp(h.items[right], h.items[smallest]) < 0 {
			smallest = right
		}
		if smallest == i {
			return
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}
