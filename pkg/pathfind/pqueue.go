package pathfind

import (
	"cmp"
	"container/heap"
)

// Entry is a key/value pair held by a PriorityQueue.
type Entry[K cmp.Ordered, V any] struct {
	Key   K
	Value V

	seq uint64 // insertion order, breaks key ties
}

// PriorityQueue is a min-priority queue keyed by K.
//
// Entries with equal keys come out in insertion order.
type PriorityQueue[K cmp.Ordered, V any] interface {
	// Len returns the number of queued entries.
	Len() int
	// IsEmpty reports whether the queue holds no entries.
	IsEmpty() bool
	// Insert queues value with priority key and returns the stored entry.
	Insert(key K, value V) Entry[K, V]
	// Min returns the entry with the smallest key without removing it.
	Min() (Entry[K, V], bool)
	// RemoveMin removes and returns the entry with the smallest key.
	RemoveMin() (Entry[K, V], bool)
}

// HeapQueue is a binary-heap PriorityQueue.
//
// The zero value is an empty, usable queue.
type HeapQueue[K cmp.Ordered, V any] struct {
	h   entryHeap[K, V]
	seq uint64
}

// NewHeapQueue returns an empty heap-backed queue.
func NewHeapQueue[K cmp.Ordered, V any]() *HeapQueue[K, V] {
	return &HeapQueue[K, V]{}
}

// Len returns the number of queued entries.
func (q *HeapQueue[K, V]) Len() int { return q.h.Len() }

// IsEmpty reports whether the queue is empty.
func (q *HeapQueue[K, V]) IsEmpty() bool { return q.h.Len() == 0 }

// Insert queues value with priority key.
func (q *HeapQueue[K, V]) Insert(key K, value V) Entry[K, V] {
	q.seq++
	e := Entry[K, V]{Key: key, Value: value, seq: q.seq}
	heap.Push(&q.h, e)
	return e
}

// Min returns the smallest entry without removing it.
func (q *HeapQueue[K, V]) Min() (Entry[K, V], bool) {
	if q.h.Len() == 0 {
		return Entry[K, V]{}, false
	}
	return q.h[0], true
}

// RemoveMin removes and returns the smallest entry.
func (q *HeapQueue[K, V]) RemoveMin() (Entry[K, V], bool) {
	if q.h.Len() == 0 {
		return Entry[K, V]{}, false
	}
	return heap.Pop(&q.h).(Entry[K, V]), true
}

// entryHeap is a min-heap ordered by key, then insertion sequence.
type entryHeap[K cmp.Ordered, V any] []Entry[K, V]

func (h entryHeap[K, V]) Len() int { return len(h) }
func (h entryHeap[K, V]) Less(i, j int) bool {
	if c := cmp.Compare(h[i].Key, h[j].Key); c != 0 {
		return c < 0
	}
	return h[i].seq < h[j].seq
}
func (h entryHeap[K, V]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *entryHeap[K, V]) Push(x any)   { *h = append(*h, x.(Entry[K, V])) }
func (h *entryHeap[K, V]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

var _ PriorityQueue[float64, int] = (*HeapQueue[float64, int])(nil)
