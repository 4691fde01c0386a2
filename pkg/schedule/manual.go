package schedule

import (
	"slices"
	"sync"
	"time"
)

// Manual is a Scheduler driven by Advance. Callbacks run synchronously on
// the goroutine calling Advance, in due-time order and, for equal due
// times, in scheduling order.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	seq     uint64
	pending []*manualTimer
}

type manualTimer struct {
	m   *Manual
	at  time.Duration
	seq uint64
	fn  func()
}

// NewManual returns a Manual scheduler at time zero.
func NewManual() *Manual { return &Manual{} }

// After schedules fn at Now()+d.
func (m *Manual) After(d time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{m: m, at: m.now + d, seq: m.seq, fn: fn}
	m.pending = append(m.pending, t)
	return t
}

// Stop removes the timer if it has not fired.
func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	i := slices.Index(t.m.pending, t)
	if i < 0 {
		return false
	}
	t.m.pending = slices.Delete(t.m.pending, i, i+1)
	return true
}

// Advance moves time forward by d, running every callback that falls due.
// Callbacks scheduled by a running callback fire in the same call if they
// fall due before the new time.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDue(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = next.at
		m.pending = slices.DeleteFunc(m.pending, func(t *manualTimer) bool { return t == next })
		m.mu.Unlock()
		next.fn()
	}
}

func (m *Manual) nextDue(limit time.Duration) *manualTimer {
	var best *manualTimer
	for _, t := range m.pending {
		if t.at > limit {
			continue
		}
		if best == nil || t.at < best.at || (t.at == best.at && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of callbacks not yet run.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}
