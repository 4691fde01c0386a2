// Package schedule runs delayed callbacks that can be cancelled as a group.
//
// The editor's automatic layout toggles after short delays. Those delays
// must never fire into a graph that has been torn down, so callbacks are
// registered through a [Group] whose Close cancels everything pending and
// waits for any callback already running.
//
// [Clock] is the wall-clock Scheduler. [Manual] is a deterministic one for
// tests: time only moves when Advance is called.
package schedule

import (
	"sync"
	"time"
)

// Timer is a pending callback.
type Timer interface {
	// Stop prevents the callback from running. It reports false if the
	// callback already ran or was already stopped.
	Stop() bool
}

// Scheduler runs fn once after d.
type Scheduler interface {
	After(d time.Duration, fn func()) Timer
}

// Clock schedules callbacks on the wall clock. Callbacks run on their own
// goroutine.
type Clock struct{}

// After implements Scheduler using time.AfterFunc.
func (Clock) After(d time.Duration, fn func()) Timer { return time.AfterFunc(d, fn) }

// Group tracks callbacks scheduled through it so they can be cancelled
// together. It is safe for concurrent use.
type Group struct {
	sched Scheduler

	mu      sync.Mutex
	timers  map[*groupTimer]struct{}
	closed  bool
	running sync.WaitGroup
}

// NewGroup returns a Group scheduling on s. A nil s uses Clock.
func NewGroup(s Scheduler) *Group {
	if s == nil {
		s = Clock{}
	}
	return &Group{sched: s, timers: make(map[*groupTimer]struct{})}
}

type groupTimer struct {
	g     *Group
	inner Timer
}

// Stop cancels this timer only.
func (t *groupTimer) Stop() bool {
	t.g.mu.Lock()
	_, pending := t.g.timers[t]
	delete(t.g.timers, t)
	inner := t.inner
	t.g.mu.Unlock()
	if inner != nil {
		inner.Stop()
	}
	return pending
}

// After schedules fn after d. On a closed group it returns a timer that
// never fires.
func (g *Group) After(d time.Duration, fn func()) Timer {
	t := &groupTimer{g: g}
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return t
	}
	g.timers[t] = struct{}{}
	g.mu.Unlock()

	inner := g.sched.After(d, func() {
		g.mu.Lock()
		_, pending := g.timers[t]
		delete(g.timers, t)
		if pending {
			g.running.Add(1)
		}
		g.mu.Unlock()
		if pending {
			defer g.running.Done()
			fn()
		}
	})

	g.mu.Lock()
	t.inner = inner
	g.mu.Unlock()
	return t
}

// Pending returns the number of callbacks that have neither run nor been
// cancelled.
func (g *Group) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.timers)
}

// Cancel stops every pending callback but leaves the group usable.
func (g *Group) Cancel() {
	g.mu.Lock()
	var inners []Timer
	for t := range g.timers {
		if t.inner != nil {
			inners = append(inners, t.inner)
		}
	}
	clear(g.timers)
	g.mu.Unlock()
	for _, in := range inners {
		in.Stop()
	}
}

// Close cancels every pending callback and waits for callbacks that are
// already running. Subsequent After calls are ignored. Close is idempotent
// and must not be called from one of the group's own callbacks.
func (g *Group) Close() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
	g.Cancel()
	g.running.Wait()
}
