package layout

import (
	"sync"
	"time"

	"github.com/matzehuels/querygraph/pkg/schedule"
)

// Auto-layout delays.
const (
	DefaultSettleDelay = 700 * time.Millisecond
	DefaultFreezeDelay = 500 * time.Millisecond
)

// AutoOptions configures an AutoLayout. Zero delays use the defaults.
type AutoOptions struct {
	SettleDelay time.Duration
	FreezeDelay time.Duration

	// OnChange, if set, is called whenever the enabled flag changes. It
	// may run on a timer goroutine and must not call back into the
	// AutoLayout.
	OnChange func(enabled bool)
}

// AutoLayout drives the automatic layout flag.
//
// Trigger enables relaxation after the settle delay. While the overview
// snapshot is showing, relaxation is switched off again after a further
// freeze delay so the overview reflects a stable picture. Close cancels
// anything pending; no callback runs after Close returns.
//
// Safe for concurrent use.
type AutoLayout struct {
	group    *schedule.Group
	settle   time.Duration
	freeze   time.Duration
	onChange func(bool)

	mu       sync.Mutex
	enabled  bool
	overview bool
	closed   bool
}

// NewAutoLayout returns a controller scheduling on s. A nil s uses the
// wall clock.
func NewAutoLayout(s schedule.Scheduler, opts AutoOptions) *AutoLayout {
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = DefaultSettleDelay
	}
	if opts.FreezeDelay <= 0 {
		opts.FreezeDelay = DefaultFreezeDelay
	}
	return &AutoLayout{
		group:    schedule.NewGroup(s),
		settle:   opts.SettleDelay,
		freeze:   opts.FreezeDelay,
		onChange: opts.OnChange,
	}
}

// Trigger restarts the settle/freeze cycle. A cycle already pending is
// cancelled first.
func (a *AutoLayout) Trigger() {
	a.group.Cancel()
	a.group.After(a.settle, func() {
		a.set(true)
		a.mu.Lock()
		freeze := a.overview
		a.mu.Unlock()
		if freeze {
			a.group.After(a.freeze, func() { a.set(false) })
		}
	})
}

// Pause cancels any pending cycle and turns relaxation off.
func (a *AutoLayout) Pause() {
	a.group.Cancel()
	a.set(false)
}

// SetOverview records whether the overview snapshot is showing.
func (a *AutoLayout) SetOverview(showing bool) {
	a.mu.Lock()
	a.overview = showing
	a.mu.Unlock()
}

// Overview reports whether the overview snapshot is showing.
func (a *AutoLayout) Overview() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.overview
}

// Enabled reports whether relaxation is on.
func (a *AutoLayout) Enabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enabled
}

// Pending reports whether a settle or freeze step is scheduled.
func (a *AutoLayout) Pending() bool { return a.group.Pending() > 0 }

// Close cancels pending steps and waits for a step that is already
// running. The controller stays readable but never changes state again.
func (a *AutoLayout) Close() {
	a.group.Close()
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
}

func (a *AutoLayout) set(v bool) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	changed := a.enabled != v
	a.enabled = v
	a.mu.Unlock()
	if changed && a.onChange != nil {
		a.onChange(v)
	}
}
