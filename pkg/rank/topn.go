package rank

import "slices"

// TopN keeps the n best items seen so far. The heap root is the current
// worst retained item, so each offer costs one comparison when rejected.
type TopN[T any] struct {
	n    int
	cmp  func(a, b T) int
	heap *Heap[T]
}

// NewTopN retains at most n items ranked by cmp, where cmp(a, b) > 0 means
// a outranks b. n <= 0 retains nothing.
func NewTopN[T any](n int, cmp func(a, b T) int) *TopN[T] {
	return &TopN[T]{n: n, cmp: cmp, heap: NewHeap(cmp, max(n, 0))}
}

// Offer considers v. It returns true if v was retained.
func (t *TopN[T]) Offer(v T) bool {
	if t.n <= 0 {
		return false
	}
	if t.heap.Len() < t.n {
		t.heap.Push(v)
		return true
	}
	worst, _ := t.heap.Peek()
	if t.cmp(v, worst) > 0 {
		t.heap.ReplaceTop(v)
		return true
	}
	return false
}

// Len returns the number of retained items.
func (t *TopN[T]) Len() int { return t.heap.Len() }

// Sorted returns the retained items, best first.
func (t *TopN[T]) Sorted() []T {
	out := t.heap.ToSlice()
	slices.SortFunc(out, func(a, b T) int { return t.cmp(b, a) })
	return out
}
