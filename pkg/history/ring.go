package history

// Ring is a fixed-capacity stack that forgets its oldest entry on overflow.
//
// Push/Pop/Peek operate on the newest end. Not safe for concurrent use.
type Ring[T any] struct {
	buf  []T
	head int // index of the oldest entry
	n    int
}

// NewRing returns an empty ring holding at most capacity entries.
// A capacity below 1 is raised to 1.
func NewRing[T any](capacity int) *Ring[T] {
	return &Ring[T]{buf: make([]T, max(capacity, 1))}
}

// Push appends v as the newest entry. If the ring was full the oldest
// entry is evicted and returned with ok=true.
func (r *Ring[T]) Push(v T) (evicted T, ok bool) {
	if r.n == len(r.buf) {
		evicted, ok = r.buf[r.head], true
		r.buf[r.head] = v
		r.head = (r.head + 1) % len(r.buf)
		return evicted, ok
	}
	r.buf[(r.head+r.n)%len(r.buf)] = v
	r.n++
	return evicted, false
}

// Pop removes and returns the newest entry.
func (r *Ring[T]) Pop() (T, bool) {
	var zero T
	if r.n == 0 {
		return zero, false
	}
	i := (r.head + r.n - 1) % len(r.buf)
	v := r.buf[i]
	r.buf[i] = zero
	r.n--
	return v, true
}

// Peek returns the newest entry without removing it.
func (r *Ring[T]) Peek() (T, bool) {
	if r.n == 0 {
		var zero T
		return zero, false
	}
	return r.buf[(r.head+r.n-1)%len(r.buf)], true
}

// Len returns the number of held entries.
func (r *Ring[T]) Len() int { return r.n }

// Cap returns the maximum number of entries.
func (r *Ring[T]) Cap() int { return len(r.buf) }

// Clear drops every entry.
func (r *Ring[T]) Clear() {
	clear(r.buf)
	r.head, r.n = 0, 0
}

// Items returns the held entries from oldest to newest.
func (r *Ring[T]) Items() []T {
	out := make([]T, r.n)
	for i := range r.n {
		out[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	return out
}
