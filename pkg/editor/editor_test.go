package editor

import (
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/querygraph/pkg/entity"
	"github.com/matzehuels/querygraph/pkg/errors"
	"github.com/matzehuels/querygraph/pkg/layout"
	"github.com/matzehuels/querygraph/pkg/schedule"
	"github.com/matzehuels/querygraph/pkg/style"
)

func newTestEditor(t *testing.T) (*Editor, *schedule.Manual) {
	t.Helper()
	m := schedule.NewManual()
	ed := New(Options{Logger: log.New(io.Discard), Scheduler: m})
	t.Cleanup(ed.Close)
	return ed, m
}

// buildABC adds A→B (w=2), B→C (w=3), A→C (w=10).
func buildABC(t *testing.T, ed *Editor) {
	t.Helper()
	for _, id := range []string{"A", "B", "C"} {
		if _, ok := ed.AddNode(id, []string{"Station"}, entity.NewProperties("name", id)); !ok {
			t.Fatalf("AddNode(%s) failed", id)
		}
	}
	for _, e := range []struct {
		id, from, to string
		w            int
	}{
		{"ab", "A", "B", 2},
		{"bc", "B", "C", 3},
		{"ac", "A", "C", 10},
	} {
		if _, ok, err := ed.AddEdge(e.id, []string{"ROUTE"}, e.from, e.to, entity.NewProperties("w", e.w)); !ok || err != nil {
			t.Fatalf("AddEdge(%s) = %v, %v", e.id, ok, err)
		}
	}
}

// checkInvariants asserts registry and store agree.
func checkInvariants(t *testing.T, ed *Editor) {
	t.Helper()
	if ed.NumVertices() != ed.model.NumNodes() {
		t.Errorf("store has %d vertices, registry %d nodes", ed.NumVertices(), ed.model.NumNodes())
	}
	if ed.NumEdges() != ed.model.NumEdges() {
		t.Errorf("store has %d edges, registry %d edges", ed.NumEdges(), ed.model.NumEdges())
	}
	for _, id := range ed.model.NodeIDs() {
		if h, _ := ed.model.GetNode(id); !ed.store.HasVertex(h) {
			t.Errorf("node %s resolves to dead handle %d", id, h)
		}
	}
	for _, id := range ed.model.EdgeIDs() {
		if h, _ := ed.model.GetEdge(id); !ed.store.HasEdge(h) {
			t.Errorf("edge %s resolves to dead handle %d", id, h)
		}
	}
	for _, h := range ed.store.Edges() {
		rec, _ := ed.store.Edge(h)
		for _, id := range []string{rec.SourceID, rec.TargetID} {
			if _, ok := ed.model.GetNode(id); !ok {
				t.Errorf("edge %s endpoint %s not registered", rec.ID, id)
			}
		}
	}
}

func edgeIDs(snap Snapshot) []string {
	var ids []string
	for _, e := range snap.Edges {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestAddNodeDuplicateIsNoop(t *testing.T) {
	ed, _ := newTestEditor(t)
	buildABC(t, ed)

	if _, ok := ed.AddNode("A", []string{"Other"}, entity.Properties{}); ok {
		t.Error("duplicate AddNode returned true")
	}
	if ed.NumVertices() != 3 || ed.NumEdges() != 3 {
		t.Errorf("counts changed: %d vertices, %d edges", ed.NumVertices(), ed.NumEdges())
	}
	n, _ := ed.Node("A")
	if !slices.Equal(n.Labels, []string{"Station"}) {
		t.Errorf("duplicate insert changed labels: %v", n.Labels)
	}
	checkInvariants(t, ed)
}

func TestAddNodeRejectsBadID(t *testing.T) {
	ed, _ := newTestEditor(t)
	if _, ok := ed.AddNode("", nil, entity.Properties{}); ok {
		t.Error("empty id accepted")
	}
	if ed.NumVertices() != 0 {
		t.Errorf("NumVertices() = %d", ed.NumVertices())
	}
}

func TestAddNodeAssignsStyle(t *testing.T) {
	ed, _ := newTestEditor(t)
	ed.AddNode("p", []string{"Person"}, entity.Properties{})
	ed.AddNode("m", []string{"Movie"}, entity.Properties{})
	ed.AddNode("x", nil, entity.Properties{})

	p, _ := ed.Node("p")
	m, _ := ed.Node("m")
	x, _ := ed.Node("x")
	if p.Color != style.ColorFor(0) || p.Radius != 35 {
		t.Errorf("p style = %s/%v", p.Color, p.Radius)
	}
	if m.Color != style.ColorFor(1) || m.Radius != 33 {
		t.Errorf("m style = %s/%v", m.Color, m.Radius)
	}
	if x.Color != "" || x.Radius != style.DefaultRadius {
		t.Errorf("unlabeled style = %q/%v", x.Color, x.Radius)
	}
	if c, ok := ed.LabelColor("Movie"); !ok || c != m.Color {
		t.Errorf("LabelColor(Movie) = %q, %v", c, ok)
	}
}

func TestAddEdge(t *testing.T) {
	ed, _ := newTestEditor(t)
	buildABC(t, ed)

	if _, ok, err := ed.AddEdge("ab", []string{"ROUTE"}, "A", "B", entity.Properties{}); ok || err != nil {
		t.Errorf("duplicate AddEdge = %v, %v; want false, nil", ok, err)
	}

	tests := []struct {
		name, from, to string
	}{
		{"unknown source", "Z", "A"},
		{"unknown target", "A", "Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := ed.AddEdge("new", nil, tt.from, tt.to, entity.Properties{})
			if ok || !errors.Is(err, errors.ErrCodeInvalidEndpoint) {
				t.Errorf("AddEdge = %v, %v; want INVALID_ENDPOINT", ok, err)
			}
		})
	}
	if ed.NumEdges() != 3 {
		t.Errorf("NumEdges() = %d, want 3", ed.NumEdges())
	}
	checkInvariants(t, ed)
}

func TestDeleteUndoRestoresGraph(t *testing.T) {
	ed, _ := newTestEditor(t)
	buildABC(t, ed)
	ed.SetPosition("B", 12, 34)
	before := ed.Snapshot()

	if !ed.Delete("B") {
		t.Fatal("Delete(B) failed")
	}
	if ed.NumVertices() != 2 || ed.NumEdges() != 1 {
		t.Fatalf("after delete: %d vertices, %d edges; want 2, 1", ed.NumVertices(), ed.NumEdges())
	}
	if diff := cmp.Diff([]string{"ac"}, edgeIDs(ed.Snapshot())); diff != "" {
		t.Errorf("remaining edges (-want +got):\n%s", diff)
	}
	checkInvariants(t, ed)

	if !ed.Undo() {
		t.Fatal("Undo failed")
	}
	checkInvariants(t, ed)
	after := ed.Snapshot()
	if ed.NumVertices() != 3 || ed.NumEdges() != 3 {
		t.Fatalf("after undo: %d vertices, %d edges", ed.NumVertices(), ed.NumEdges())
	}

	b, _ := ed.Node("B")
	if b.LastPosition != (entity.Position{X: 12, Y: 34}) {
		t.Errorf("B position = %v", b.LastPosition)
	}
	for _, want := range before.Edges {
		got, ok := ed.Edge(want.ID)
		if !ok {
			t.Errorf("edge %s not restored", want.ID)
			continue
		}
		if got.SourceID != want.SourceID || got.TargetID != want.TargetID || !got.Properties.Equal(want.Properties) {
			t.Errorf("edge %s restored as %+v, want %+v", want.ID, got, want)
		}
	}
	if len(after.Nodes) != len(before.Nodes) {
		t.Errorf("restored %d nodes, want %d", len(after.Nodes), len(before.Nodes))
	}
}

func TestDeleteUndoRedoMatchesPostDelete(t *testing.T) {
	ed, _ := newTestEditor(t)
	buildABC(t, ed)
	ed.Delete("B")
	postDelete := ed.Snapshot()

	ed.Undo()
	if !ed.Redo() {
		t.Fatal("Redo failed")
	}
	if diff := cmp.Diff(postDelete, ed.Snapshot(), cmp.Comparer(func(a, b entity.Properties) bool { return a.Equal(b) })); diff != "" {
		t.Errorf("post-redo graph differs (-want +got):\n%s", diff)
	}
	checkInvariants(t, ed)
}

func TestDeleteEdge(t *testing.T) {
	ed, _ := newTestEditor(t)
	buildABC(t, ed)
	ed.SelectEdge("ac")

	if !ed.DeleteEdge("ac") {
		t.Fatal("DeleteEdge(ac) failed")
	}
	if ed.NumEdges() != 2 || ed.NumVertices() != 3 {
		t.Errorf("after DeleteEdge: %d vertices, %d edges", ed.NumVertices(), ed.NumEdges())
	}
	if _, e := ed.Selection(); e != "" {
		t.Errorf("deleted edge still selected: %q", e)
	}
	if ed.CanUndo() {
		t.Error("edge deletion should not be recorded in the history")
	}
	if ed.DeleteEdge("ac") || ed.DeleteEdge("A") {
		t.Error("DeleteEdge should only accept live edge ids")
	}
	checkInvariants(t, ed)
}

func TestSetEdgeStyle(t *testing.T) {
	ed, _ := newTestEditor(t)
	buildABC(t, ed)

	if ok, err := ed.SetEdgeStyle("ab", entity.LineDotted, "#112233", 4); !ok || err != nil {
		t.Fatalf("SetEdgeStyle(ab) = %v, %v", ok, err)
	}
	if ok, err := ed.SetEdgeStyle("ab", "", "", 0); !ok || err != nil {
		t.Fatalf("SetEdgeStyle(ab) with zero values = %v, %v", ok, err)
	}
	got, _ := ed.Edge("ab")
	if got.LineStyle != entity.LineDotted || got.LineColor != "#112233" || got.LineWeight != 4 {
		t.Errorf("ab = %s %s %v", got.LineStyle, got.LineColor, got.LineWeight)
	}

	if ok, err := ed.SetEdgeStyle("missing", entity.LineDashed, "", 0); ok || err != nil {
		t.Errorf("SetEdgeStyle(missing) = %v, %v", ok, err)
	}
	if _, err := ed.SetEdgeStyle("bc", "wavy", "", 0); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}

	// The deletion snapshot carries the style back on undo.
	ed.Delete("A")
	ed.Undo()
	got, _ = ed.Edge("ab")
	if got.LineStyle != entity.LineDotted || got.LineWeight != 4 {
		t.Errorf("after undo ab = %s %v", got.LineStyle, got.LineWeight)
	}
}

func TestRandomEditSequenceKeepsRegistryInSync(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 42))
	ed, _ := newTestEditor(t)

	nodeID := func() string { return fmt.Sprintf("n%d", rng.IntN(12)) }
	edgeID := func() string { return fmt.Sprintf("e%d", rng.IntN(30)) }

	for step := range 3000 {
		switch op := rng.IntN(6); op {
		case 0:
			ed.AddNode(nodeID(), []string{fmt.Sprintf("L%d", rng.IntN(3))}, entity.Properties{})
		case 1:
			_, _, err := ed.AddEdge(edgeID(), []string{"REL"}, nodeID(), nodeID(), entity.NewProperties("w", rng.IntN(5)))
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidEndpoint) {
				t.Fatalf("step %d: AddEdge: %v", step, err)
			}
		case 2:
			ed.Delete(nodeID())
		case 3:
			ed.DeleteEdge(edgeID())
		case 4:
			ed.Undo()
		case 5:
			ed.Redo()
		}
		checkInvariants(t, ed)
		if t.Failed() {
			t.Fatalf("registry and store diverged at step %d", step)
		}
	}
}

func TestUndoRedoEmpty(t *testing.T) {
	ed, _ := newTestEditor(t)
	if ed.Undo() || ed.Redo() {
		t.Error("Undo/Redo on empty history returned true")
	}
	if ed.Delete("missing") {
		t.Error("Delete of unknown id returned true")
	}
}

func TestUndoCapacity(t *testing.T) {
	ed, _ := newTestEditor(t)
	for i := range 6 {
		ed.AddNode(fmt.Sprintf("n%d", i), nil, entity.Properties{})
	}
	for i := range 6 {
		ed.Delete(fmt.Sprintf("n%d", i))
	}
	undone := 0
	for range 6 {
		if ed.Undo() {
			undone++
		}
	}
	if undone != 5 {
		t.Errorf("undid %d, want 5", undone)
	}
	if _, ok := ed.Node("n0"); ok {
		t.Error("oldest deletion was restored")
	}
	if ed.NumVertices() != 5 {
		t.Errorf("NumVertices() = %d, want 5", ed.NumVertices())
	}
}

func TestClear(t *testing.T) {
	ed, _ := newTestEditor(t)
	buildABC(t, ed)
	ed.Delete("A")
	ed.Clear()

	if ed.NumVertices() != 0 || ed.NumEdges() != 0 {
		t.Errorf("Clear left %d vertices, %d edges", ed.NumVertices(), ed.NumEdges())
	}
	if ed.CanUndo() || ed.CanRedo() {
		t.Error("Clear left history")
	}
	if _, ok := ed.AddNode("A", []string{"Late"}, entity.Properties{}); !ok {
		t.Error("id not reusable after Clear")
	}
	if n, _ := ed.Node("A"); n.Color != style.ColorFor(0) {
		t.Errorf("style allocator not reset: %s", n.Color)
	}
	checkInvariants(t, ed)
}

func TestSelectionNotifiesListener(t *testing.T) {
	ed, _ := newTestEditor(t)
	buildABC(t, ed)

	var events []string
	ed.SetListener(ListenerFuncs{
		VertexSelected: func(id string) { events = append(events, "v:"+id) },
		EdgeSelected:   func(id string) { events = append(events, "e:"+id) },
		TabSelected:    func(i int) { events = append(events, fmt.Sprintf("t:%d", i)) },
	})

	ed.SelectVertex("A")
	ed.SelectVertex("missing")
	ed.SelectEdge("bc")
	ed.SelectTab(2)

	if diff := cmp.Diff([]string{"v:A", "e:bc", "t:2"}, events); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
	if v, e := ed.Selection(); v != "" || e != "bc" {
		t.Errorf("Selection() = %q, %q", v, e)
	}
}

func TestDeleteSelected(t *testing.T) {
	ed, _ := newTestEditor(t)
	buildABC(t, ed)

	if ed.DeleteSelected() {
		t.Error("DeleteSelected with nothing selected returned true")
	}
	ed.SelectVertex("C")
	if !ed.DeleteSelected() {
		t.Fatal("DeleteSelected failed")
	}
	if _, ok := ed.Node("C"); ok {
		t.Error("C still present")
	}
	if v, _ := ed.Selection(); v != "" {
		t.Errorf("selection still %q after delete", v)
	}
	ed.SelectVertex("A")
	ed.ClearSelection()
	if ed.DeleteSelected() {
		t.Error("DeleteSelected after ClearSelection returned true")
	}
}

type recordingListener struct {
	NopListener
	mu     sync.Mutex
	layout []bool
}

func (r *recordingListener) OnAutomaticLayout(on bool) {
	r.mu.Lock()
	r.layout = append(r.layout, on)
	r.mu.Unlock()
}

func TestAutomaticLayoutAfterRefresh(t *testing.T) {
	ed, clock := newTestEditor(t)
	rec := &recordingListener{}
	ed.SetListener(rec)
	buildABC(t, ed)

	ed.Refresh()
	clock.Advance(layout.DefaultSettleDelay - time.Millisecond)
	if ed.AutomaticLayout() {
		t.Fatal("auto layout on before settle delay")
	}
	clock.Advance(time.Millisecond)
	if !ed.AutomaticLayout() {
		t.Fatal("auto layout off after settle delay")
	}

	ed.SetOverviewVisible(true)
	ed.Delete("A")
	clock.Advance(layout.DefaultSettleDelay + layout.DefaultFreezeDelay)
	if ed.AutomaticLayout() {
		t.Error("overview did not freeze layout")
	}
	if diff := cmp.Diff([]bool{true, false}, rec.layout); diff != "" {
		t.Errorf("layout events (-want +got):\n%s", diff)
	}
}

func TestSetLayoutStrategy(t *testing.T) {
	ed, clock := newTestEditor(t)
	ed.Refresh()
	clock.Advance(time.Second)
	if !ed.AutomaticLayout() {
		t.Fatal("spring did not relax")
	}

	if err := ed.SetLayoutStrategy(layout.Radial); err != nil {
		t.Fatal(err)
	}
	if ed.AutomaticLayout() {
		t.Error("switching strategy did not pause auto layout")
	}
	ed.Refresh()
	clock.Advance(time.Second)
	if ed.AutomaticLayout() {
		t.Error("radial layout relaxed")
	}

	if err := ed.SetLayoutStrategy(layout.Spring); err != nil {
		t.Fatal(err)
	}
	clock.Advance(time.Second)
	if !ed.AutomaticLayout() || ed.LayoutStrategy() != layout.Spring {
		t.Error("switching back to spring did not restart relaxation")
	}

	if err := ed.SetLayoutStrategy(layout.Strategy(99)); !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("invalid strategy err = %v", err)
	}
}

func TestCloseDropsPendingLayout(t *testing.T) {
	m := schedule.NewManual()
	ed := New(Options{Logger: log.New(io.Discard), Scheduler: m})
	rec := &recordingListener{}
	ed.SetListener(rec)

	ed.Refresh()
	ed.Close()
	m.Advance(time.Hour)
	if ed.AutomaticLayout() || len(rec.layout) != 0 {
		t.Errorf("layout flipped after Close: %v", rec.layout)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	ed, _ := newTestEditor(t)
	buildABC(t, ed)
	snap := ed.Snapshot()
	snap.Nodes[0].Properties.Set("name", "changed")
	snap.Nodes[0].Labels[0] = "Changed"

	n, _ := ed.Node(snap.Nodes[0].ID)
	if v, _ := n.Properties.Get("name"); v != "A" {
		t.Errorf("snapshot aliases editor properties: %v", v)
	}
	if n.Labels[0] != "Station" {
		t.Errorf("snapshot aliases editor labels: %v", n.Labels)
	}
	if diff := cmp.Diff([]string{"ab", "bc", "ac"}, edgeIDs(snap)); diff != "" {
		t.Errorf("edge order (-want +got):\n%s", diff)
	}
}

func TestStats(t *testing.T) {
	ed, _ := newTestEditor(t)
	buildABC(t, ed)
	ed.AddNode("D", []string{"Depot", "Station"}, entity.Properties{})

	st := ed.Stats()
	want := Stats{
		Vertices: 4,
		Edges:    3,
		Labels:   map[string]int{"Station": 4, "Depot": 1},
		Types:    map[string]int{"ROUTE": 3},
	}
	if diff := cmp.Diff(want, st); diff != "" {
		t.Errorf("Stats() (-want +got):\n%s", diff)
	}
}
