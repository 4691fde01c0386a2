package editor

import (
	"github.com/matzehuels/querygraph/pkg/entity"
	"github.com/matzehuels/querygraph/pkg/errors"
	"github.com/matzehuels/querygraph/pkg/layout"
)

// SetLayoutStrategy switches the active layout. Automatic layout is paused
// first; switching to a relaxing strategy starts a new settle cycle unless
// the overview is showing.
func (e *Editor) SetLayoutStrategy(s layout.Strategy) error {
	if !s.Valid() {
		return errors.New(errors.ErrCodeInvalidLayout, "invalid layout %d", int(s))
	}
	e.auto.Pause()
	e.strategy = s
	if s.Relaxes() && !e.auto.Overview() {
		e.auto.Trigger()
	}
	e.logger.Debug("layout", "strategy", s)
	return nil
}

// LayoutStrategy returns the active layout.
func (e *Editor) LayoutStrategy() layout.Strategy { return e.strategy }

// Refresh tells the editor the topology changed so the renderer should
// settle the picture again. Only relaxing strategies schedule anything.
func (e *Editor) Refresh() {
	if e.strategy.Relaxes() {
		e.auto.Trigger()
	}
}

// SetOverviewVisible records whether the overview snapshot is showing.
// While it is, each settle cycle freezes the layout after the freeze
// delay.
func (e *Editor) SetOverviewVisible(showing bool) { e.auto.SetOverview(showing) }

// AutomaticLayout reports whether the renderer should run continuous
// relaxation right now.
func (e *Editor) AutomaticLayout() bool { return e.auto.Enabled() }

// Snapshot is a point-in-time copy of the graph for export.
type Snapshot struct {
	Nodes []entity.Node
	Edges []entity.Edge
}

// Snapshot copies every live node and edge in insertion order. The copy
// shares nothing with the editor.
func (e *Editor) Snapshot() Snapshot {
	var snap Snapshot
	for _, h := range e.store.Vertices() {
		n, _ := e.store.Vertex(h)
		snap.Nodes = append(snap.Nodes, n)
	}
	for _, h := range e.store.Edges() {
		rec, _ := e.store.Edge(h)
		snap.Edges = append(snap.Edges, rec)
	}
	return snap
}

// Stats summarizes the graph.
type Stats struct {
	Vertices int
	Edges    int
	Labels   map[string]int // node count per label
	Types    map[string]int // edge count per type
}

// Stats counts nodes per label and edges per type.
func (e *Editor) Stats() Stats {
	st := Stats{
		Vertices: e.store.NumVertices(),
		Edges:    e.store.NumEdges(),
		Labels:   make(map[string]int),
		Types:    make(map[string]int),
	}
	for _, l := range e.model.Labels() {
		st.Labels[l] = len(e.model.NodesWithLabel(l))
	}
	for _, t := range e.model.Types() {
		st.Types[t] = len(e.model.EdgesWithType(t))
	}
	return st
}

// LabelColor returns the fill color assigned to a label, if it has been
// seen.
func (e *Editor) LabelColor(label string) (string, bool) {
	s, ok := e.styles.Lookup(label)
	return s.Color, ok
}
