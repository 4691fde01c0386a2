package layout

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/querygraph/pkg/errors"
	"github.com/matzehuels/querygraph/pkg/schedule"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in   string
		want Strategy
	}{
		{"spring", Spring},
		{"Radial", Radial},
		{"horizontal_tree", HorizontalTree},
		{"vertical tree", VerticalTree},
		{"tree", VerticalTree},
		{"htree", HorizontalTree},
		{" GRID ", Grid},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStrategy(tt.in)
			if err != nil || got != tt.want {
				t.Errorf("ParseStrategy(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
			}
		})
	}

	if _, err := ParseStrategy("circle"); !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("ParseStrategy(circle) err = %v, want INVALID_LAYOUT", err)
	}
}

func TestStrategyRoundTrip(t *testing.T) {
	for _, s := range Strategies() {
		text, err := s.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", s, err)
		}
		var back Strategy
		if err := back.UnmarshalText(text); err != nil || back != s {
			t.Errorf("round trip %v -> %q -> %v (%v)", s, text, back, err)
		}
	}
	if Strategy(42).String() != "unknown" || Strategy(42).Valid() {
		t.Error("out-of-range strategy reported as valid")
	}
	if _, err := Strategy(-1).MarshalText(); err == nil {
		t.Error("MarshalText of invalid strategy should fail")
	}
}

func newAuto(m *schedule.Manual) (*AutoLayout, *[]bool) {
	var changes []bool
	a := NewAutoLayout(m, AutoOptions{OnChange: func(v bool) { changes = append(changes, v) }})
	return a, &changes
}

func TestAutoLayoutSettle(t *testing.T) {
	m := schedule.NewManual()
	a, changes := newAuto(m)

	a.Trigger()
	m.Advance(699 * time.Millisecond)
	if a.Enabled() {
		t.Fatal("enabled before settle delay")
	}
	m.Advance(time.Millisecond)
	if !a.Enabled() {
		t.Fatal("not enabled after settle delay")
	}
	m.Advance(time.Hour)
	if !a.Enabled() {
		t.Error("disabled without overview showing")
	}
	if diff := cmp.Diff([]bool{true}, *changes); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
}

func TestAutoLayoutOverviewFreezes(t *testing.T) {
	m := schedule.NewManual()
	a, changes := newAuto(m)
	a.SetOverview(true)

	a.Trigger()
	m.Advance(DefaultSettleDelay)
	if !a.Enabled() {
		t.Fatal("not enabled after settle delay")
	}
	m.Advance(DefaultFreezeDelay)
	if a.Enabled() {
		t.Fatal("still enabled after freeze delay")
	}
	if diff := cmp.Diff([]bool{true, false}, *changes); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
}

func TestAutoLayoutRetriggerRestartsCycle(t *testing.T) {
	m := schedule.NewManual()
	a, _ := newAuto(m)

	a.Trigger()
	m.Advance(600 * time.Millisecond)
	a.Trigger()
	m.Advance(600 * time.Millisecond)
	if a.Enabled() {
		t.Fatal("first cycle was not cancelled")
	}
	m.Advance(100 * time.Millisecond)
	if !a.Enabled() {
		t.Error("second cycle did not fire")
	}
}

func TestAutoLayoutPauseAndClose(t *testing.T) {
	m := schedule.NewManual()
	a, changes := newAuto(m)

	a.Trigger()
	m.Advance(time.Second)
	a.Pause()
	if a.Enabled() {
		t.Fatal("Pause left relaxation on")
	}

	a.Trigger()
	a.Close()
	m.Advance(time.Hour)
	if a.Enabled() || a.Pending() {
		t.Error("callback ran after Close")
	}
	if diff := cmp.Diff([]bool{true, false}, *changes); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
}

func TestAutoLayoutCloseWaitsForStep(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	var changes []bool
	a := NewAutoLayout(schedule.Clock{}, AutoOptions{
		SettleDelay: time.Millisecond,
		OnChange: func(v bool) {
			if v {
				close(started)
				<-release
			}
			mu.Lock()
			changes = append(changes, v)
			mu.Unlock()
		},
	})
	a.Trigger()
	<-started

	closed := make(chan struct{})
	go func() {
		a.Close()
		close(closed)
	}()
	close(release)
	<-closed

	mu.Lock()
	n := len(changes)
	mu.Unlock()
	if n != 1 {
		t.Fatalf("changes before Close returned = %d, want 1", n)
	}

	a.Pause()
	a.Trigger()
	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if diff := cmp.Diff([]bool{true}, changes); diff != "" {
		t.Errorf("state changed after Close (-want +got):\n%s", diff)
	}
}
