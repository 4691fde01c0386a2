package history

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRingPushPop(t *testing.T) {
	r := NewRing[int](3)
	if _, ok := r.Pop(); ok {
		t.Fatal("Pop on empty ring")
	}
	for i := 1; i <= 3; i++ {
		if _, evicted := r.Push(i); evicted {
			t.Fatalf("Push(%d) evicted below capacity", i)
		}
	}
	old, evicted := r.Push(4)
	if !evicted || old != 1 {
		t.Errorf("Push(4) evicted %d, %v; want 1, true", old, evicted)
	}
	if diff := cmp.Diff([]int{2, 3, 4}, r.Items()); diff != "" {
		t.Errorf("Items() mismatch (-want +got):\n%s", diff)
	}

	if v, _ := r.Peek(); v != 4 {
		t.Errorf("Peek() = %d, want 4", v)
	}
	var popped []int
	for r.Len() > 0 {
		v, _ := r.Pop()
		popped = append(popped, v)
	}
	if diff := cmp.Diff([]int{4, 3, 2}, popped); diff != "" {
		t.Errorf("pop order mismatch (-want +got):\n%s", diff)
	}
}

func TestRingWrapAround(t *testing.T) {
	r := NewRing[string](2)
	r.Push("a")
	r.Push("b")
	r.Pop()
	r.Push("c")
	r.Push("d")

	if diff := cmp.Diff([]string{"c", "d"}, r.Items()); diff != "" {
		t.Errorf("Items() mismatch (-want +got):\n%s", diff)
	}
	r.Clear()
	if r.Len() != 0 || len(r.Items()) != 0 {
		t.Error("Clear left entries")
	}
	if r.Cap() != 2 {
		t.Errorf("Cap() = %d after Clear", r.Cap())
	}
}

func TestRingMinimumCapacity(t *testing.T) {
	r := NewRing[int](0)
	if r.Cap() != 1 {
		t.Fatalf("Cap() = %d, want 1", r.Cap())
	}
	r.Push(1)
	if old, ok := r.Push(2); !ok || old != 1 {
		t.Errorf("Push(2) = %d, %v", old, ok)
	}
}
