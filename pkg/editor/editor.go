// Package editor is the graph engine behind the query-result viewer.
//
// An [Editor] owns the vertex/edge store, the external-id registry, the
// undo/redo history, the label style allocator and the automatic layout
// controller, and keeps them consistent under every mutation:
//
//   - every registered id resolves to a live handle, and the number of
//     live vertices equals the number of registered node ids;
//   - every live edge's endpoints are live;
//   - adding an id that is already present is a no-op that returns false.
//
// The editor is driven by a single owner goroutine. The only concurrent
// activity is the auto-layout timer, which touches nothing but the layout
// flag and the listener.
//
// # Example
//
//	ed := editor.New(editor.Options{})
//	defer ed.Close()
//	ed.AddNode("a", []string{"Person"}, entity.Properties{})
//	ed.AddNode("b", []string{"Person"}, entity.Properties{})
//	ed.AddEdge("ab", []string{"KNOWS"}, "a", "b", entity.NewProperties("since", 2020))
//	res, _ := ed.FindPath("a", "b", "since")
package editor

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/querygraph/pkg/config"
	"github.com/matzehuels/querygraph/pkg/entity"
	"github.com/matzehuels/querygraph/pkg/errors"
	"github.com/matzehuels/querygraph/pkg/history"
	"github.com/matzehuels/querygraph/pkg/layout"
	"github.com/matzehuels/querygraph/pkg/model"
	"github.com/matzehuels/querygraph/pkg/observability"
	"github.com/matzehuels/querygraph/pkg/pathfind"
	"github.com/matzehuels/querygraph/pkg/schedule"
	"github.com/matzehuels/querygraph/pkg/store"
	"github.com/matzehuels/querygraph/pkg/style"
)

// Options configures an Editor. The zero value is usable.
type Options struct {
	// Context is passed to observability hooks. Defaults to Background.
	Context context.Context

	// Logger receives debug and warning events. Defaults to log.Default().
	Logger *log.Logger

	// Scheduler drives the auto-layout timers. Defaults to the wall clock.
	Scheduler schedule.Scheduler

	HistoryCapacity int
	Layout          layout.Strategy
	SettleDelay     time.Duration
	FreezeDelay     time.Duration
	DefaultWeight   float64

	// Style configures radius assignment. The zero value uses
	// style.DefaultOptions().
	Style style.Options
}

// OptionsFromConfig maps loaded settings onto editor options.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		HistoryCapacity: cfg.History.Capacity,
		Layout:          cfg.Layout.Default,
		SettleDelay:     cfg.Layout.SettleDelay.Std(),
		FreezeDelay:     cfg.Layout.FreezeDelay.Std(),
		DefaultWeight:   cfg.Path.DefaultWeight,
		Style:           cfg.Style.Options(),
	}
}

// Editor is the mutable graph plus its edit state.
type Editor struct {
	ctx    context.Context
	logger *log.Logger

	store  *store.Store
	model  *model.DataModel
	hist   *history.History
	styles *style.Allocator
	auto   *layout.AutoLayout

	strategy      layout.Strategy
	defaultWeight float64

	listenerMu sync.RWMutex
	listener   Listener

	selVertex string
	selEdge   string

	shortestMode bool
	pathStart    string
	pathEnd      string
	lastPath     pathfind.Result
}

// New returns an empty editor.
func New(opts Options) *Editor {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Style == (style.Options{}) {
		opts.Style = style.DefaultOptions()
	}
	if !opts.Layout.Valid() {
		opts.Layout = layout.Spring
	}

	s, m := store.New(), model.New()
	e := &Editor{
		ctx:           opts.Context,
		logger:        opts.Logger,
		store:         s,
		model:         m,
		hist:          history.New(s, m, opts.HistoryCapacity, opts.Logger),
		styles:        style.NewAllocator(opts.Style),
		strategy:      opts.Layout,
		defaultWeight: opts.DefaultWeight,
		listener:      NopListener{},
	}
	e.auto = layout.NewAutoLayout(opts.Scheduler, layout.AutoOptions{
		SettleDelay: opts.SettleDelay,
		FreezeDelay: opts.FreezeDelay,
		OnChange:    func(on bool) { e.currentListener().OnAutomaticLayout(on) },
	})
	return e
}

// AddNode inserts a node unless its id is already present. The node's
// color and radius come from its labels. Returns false for a duplicate or
// malformed id.
func (e *Editor) AddNode(id string, labels []string, props entity.Properties) (store.VertexHandle, bool) {
	if err := errors.ValidateID(id); err != nil {
		e.logger.Warn("rejecting node", "err", err)
		return 0, false
	}
	if _, ok := e.model.GetNode(id); ok {
		return 0, false
	}

	n := entity.NewNode(id, labels, props)
	n.Color, n.Radius = e.styles.Assign(n.Labels)
	h := e.store.InsertVertex(n)
	e.model.PutNode(id, n.Labels, h)

	e.logger.Debug("added node", "id", id, "labels", n.Labels)
	observability.Editor().OnMutation(e.ctx, "add_node", id)
	return h, true
}

// AddEdge inserts a directed edge between two registered nodes unless its
// id is already present. A duplicate id returns false with no error. An
// unknown endpoint id returns an INVALID_ENDPOINT error.
func (e *Editor) AddEdge(id string, types []string, sourceID, targetID string, props entity.Properties) (store.EdgeHandle, bool, error) {
	if err := errors.ValidateID(id); err != nil {
		return 0, false, err
	}
	if _, ok := e.model.GetEdge(id); ok {
		return 0, false, nil
	}
	src, ok := e.model.GetNode(sourceID)
	if !ok {
		return 0, false, errors.New(errors.ErrCodeInvalidEndpoint, "edge %q: unknown source %q", id, sourceID)
	}
	dst, ok := e.model.GetNode(targetID)
	if !ok {
		return 0, false, errors.New(errors.ErrCodeInvalidEndpoint, "edge %q: unknown target %q", id, targetID)
	}

	rec := entity.NewEdge(id, types, sourceID, targetID, props)
	h, err := e.store.InsertEdge(src, dst, rec)
	if err != nil {
		return 0, false, err
	}
	e.model.PutEdge(id, rec.Types, h)

	e.logger.Debug("added edge", "id", id, "source", sourceID, "target", targetID)
	observability.Editor().OnMutation(e.ctx, "add_edge", id)
	return h, true, nil
}

// Delete removes the node with the given id and all its incident edges,
// recording the deletion for undo. Returns false for an unknown id.
func (e *Editor) Delete(id string) bool {
	v, ok := e.model.GetNode(id)
	if !ok {
		return false
	}
	el, ok := e.hist.Delete(v)
	if !ok {
		return false
	}
	e.forget(el)
	observability.Editor().OnMutation(e.ctx, "delete", id)
	e.Refresh()
	return true
}

// DeleteEdge removes a single edge. Edge deletions are not recorded in
// the history. Returns false for an unknown id.
func (e *Editor) DeleteEdge(id string) bool {
	h, ok := e.model.GetEdge(id)
	if !ok {
		return false
	}
	e.store.RemoveEdge(h)
	e.model.RemoveEdge(id)
	if e.selEdge == id {
		e.selEdge = ""
	}
	e.lastPath = pathfind.Result{}
	e.logger.Debug("deleted edge", "id", id)
	observability.Editor().OnMutation(e.ctx, "delete_edge", id)
	e.Refresh()
	return true
}

// forget drops selection and path picks that refer to a deleted element.
func (e *Editor) forget(el *history.DeletedElement) {
	id := el.Vertex.ID
	if e.selVertex == id {
		e.selVertex = ""
	}
	for _, edge := range el.Edges {
		if e.selEdge == edge.ID {
			e.selEdge = ""
		}
	}
	if e.pathStart == id || e.pathEnd == id {
		e.pathStart, e.pathEnd = "", ""
	}
	e.lastPath = pathfind.Result{}
}

// Undo restores the most recent deletion. Returns false when there is
// nothing to undo. Edges whose other endpoint is gone are dropped and
// logged.
func (e *Editor) Undo() bool {
	rep, ok := e.hist.Undo()
	if !ok {
		return false
	}
	for _, err := range rep.Dropped {
		e.logger.Warn("edge not restored", "err", err)
	}
	e.lastPath = pathfind.Result{}
	observability.Editor().OnHistory(e.ctx, "undo", e.hist.UndoLen(), e.hist.RedoLen())
	e.Refresh()
	return true
}

// Redo re-applies the most recently undone deletion. Returns false when
// there is nothing to redo.
func (e *Editor) Redo() bool {
	el, ok := e.hist.Redo()
	if !ok {
		return false
	}
	e.forget(el)
	observability.Editor().OnHistory(e.ctx, "redo", e.hist.UndoLen(), e.hist.RedoLen())
	e.Refresh()
	return true
}

// CanUndo reports whether Undo has work to do.
func (e *Editor) CanUndo() bool { return e.hist.CanUndo() }

// CanRedo reports whether Redo has work to do.
func (e *Editor) CanRedo() bool { return e.hist.CanRedo() }

// Clear drops the whole graph, the edit history, label styles, selection
// and path state. Automatic layout is paused.
func (e *Editor) Clear() {
	e.auto.Pause()
	e.store.Clear()
	e.model.Clear()
	e.hist.Clear()
	e.styles.Reset()
	e.selVertex, e.selEdge = "", ""
	e.pathStart, e.pathEnd = "", ""
	e.lastPath = pathfind.Result{}
	observability.Editor().OnMutation(e.ctx, "clear", "")
}

// NumVertices returns the number of live vertices.
func (e *Editor) NumVertices() int { return e.store.NumVertices() }

// NumEdges returns the number of live edges.
func (e *Editor) NumEdges() int { return e.store.NumEdges() }

// Node returns a copy of the node with the given id.
func (e *Editor) Node(id string) (entity.Node, bool) {
	h, ok := e.model.GetNode(id)
	if !ok {
		return entity.Node{}, false
	}
	return e.store.Vertex(h)
}

// Edge returns a copy of the edge with the given id.
func (e *Editor) Edge(id string) (entity.Edge, bool) {
	h, ok := e.model.GetEdge(id)
	if !ok {
		return entity.Edge{}, false
	}
	return e.store.Edge(h)
}

// SetPosition records where the renderer last drew a node. Undo restores
// a deleted node at this position.
func (e *Editor) SetPosition(id string, x, y float64) bool {
	h, ok := e.model.GetNode(id)
	if !ok {
		return false
	}
	return e.store.SetPosition(h, entity.Position{X: x, Y: y})
}

// SetEdgeStyle changes how an edge is drawn. Empty strings and a
// non-positive weight keep the current value. Returns false for an unknown
// id and an INVALID_INPUT error for an unknown line style.
func (e *Editor) SetEdgeStyle(id, lineStyle, lineColor string, lineWeight float64) (bool, error) {
	h, ok := e.model.GetEdge(id)
	if !ok {
		return false, nil
	}
	if lineStyle != "" && !entity.ValidLineStyle(lineStyle) {
		return false, errors.New(errors.ErrCodeInvalidInput, "edge %q: unknown line style %q", id, lineStyle)
	}
	rec, _ := e.store.Edge(h)
	if lineStyle != "" {
		rec.LineStyle = lineStyle
	}
	if lineColor != "" {
		rec.LineColor = lineColor
	}
	if lineWeight > 0 {
		rec.LineWeight = lineWeight
	}
	e.store.SetLineStyle(h, rec.LineStyle, rec.LineColor, rec.LineWeight)
	e.logger.Debug("styled edge", "id", id, "style", rec.LineStyle, "color", rec.LineColor, "weight", rec.LineWeight)
	return true, nil
}

// Close pauses automatic layout and cancels pending layout timers. No
// listener call happens after Close returns.
func (e *Editor) Close() {
	e.auto.Pause()
	e.auto.Close()
	e.SetListener(nil)
}
