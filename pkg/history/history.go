// Package history implements bounded undo/redo for vertex deletion.
//
// Deleting a vertex first snapshots it into a [DeletedElement]: the node
// record, its last position and every incident edge (incoming first, then
// outgoing, self-loops once). The edges are removed, then the vertex, from
// both the store and the id registry. The snapshot goes on the undo ring.
//
// Undo rebuilds the vertex at its recorded position and re-links each
// edge by resolving its endpoint ids through the registry, so edges come
// back attached to whatever vertices currently carry those ids. The
// rebuilt element goes on the redo ring. Redo deletes it again.
//
// Both rings hold [DefaultCapacity] entries unless configured otherwise;
// pushing onto a full ring silently forgets the oldest entry.
package history

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/querygraph/pkg/entity"
	"github.com/matzehuels/querygraph/pkg/errors"
	"github.com/matzehuels/querygraph/pkg/model"
	"github.com/matzehuels/querygraph/pkg/store"
)

// DefaultCapacity is the number of undo and redo steps kept.
const DefaultCapacity = 5

// DeletedElement is the snapshot taken when a vertex is deleted.
type DeletedElement struct {
	ID       uuid.UUID
	Vertex   entity.Node
	Position entity.Position
	Edges    []entity.Edge
}

// RestoreReport describes the outcome of an Undo.
type RestoreReport struct {
	Element *DeletedElement
	Vertex  store.VertexHandle

	// Restored lists the re-linked edges in snapshot order.
	Restored []store.EdgeHandle

	// Dropped holds one DANGLING_ENDPOINT error per edge that could not
	// be re-linked because an endpoint id no longer resolves.
	Dropped []error
}

// History owns the undo and redo rings for one store/registry pair.
//
// Not safe for concurrent use.
type History struct {
	store  *store.Store
	model  *model.DataModel
	undo   *Ring[*DeletedElement]
	redo   *Ring[*DeletedElement]
	logger *log.Logger
}

// New returns a History acting on s and m. A capacity below 1 uses
// DefaultCapacity; a nil logger uses log.Default().
func New(s *store.Store, m *model.DataModel, capacity int, logger *log.Logger) *History {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = log.Default()
	}
	return &History{
		store:  s,
		model:  m,
		undo:   NewRing[*DeletedElement](capacity),
		redo:   NewRing[*DeletedElement](capacity),
		logger: logger,
	}
}

// Delete removes v and its incident edges and records the snapshot for
// undo. Any pending redo steps are discarded. Returns false if v is not
// live.
func (h *History) Delete(v store.VertexHandle) (*DeletedElement, bool) {
	el, ok := h.remove(v)
	if !ok {
		return nil, false
	}
	h.redo.Clear()
	return el, true
}

func (h *History) remove(v store.VertexHandle) (*DeletedElement, bool) {
	node, ok := h.store.Vertex(v)
	if !ok {
		return nil, false
	}

	el := &DeletedElement{
		ID:       uuid.New(),
		Vertex:   node,
		Position: node.LastPosition,
	}
	for _, eh := range h.store.IncidentEdges(v) {
		rec, _ := h.store.Edge(eh)
		el.Edges = append(el.Edges, rec)
		h.store.RemoveEdge(eh)
		h.model.RemoveEdge(rec.ID)
	}
	h.store.RemoveVertex(v)
	h.model.RemoveNode(node.ID)

	if old, evicted := h.undo.Push(el); evicted {
		h.logger.Debug("undo history full, forgetting oldest", "id", old.Vertex.ID, "edit", old.ID)
	}
	h.logger.Debug("deleted vertex", "id", node.ID, "edges", len(el.Edges), "edit", el.ID)
	return el, true
}

// Undo restores the most recent deletion. It returns false when there is
// nothing to undo.
//
// If a vertex with the same id has been added since the deletion, the live
// vertex is kept and edges are re-linked to it. Edges whose id is live
// again are skipped. Edges with an endpoint id that no longer resolves are
// dropped and reported.
func (h *History) Undo() (RestoreReport, bool) {
	el, ok := h.undo.Pop()
	if !ok {
		return RestoreReport{}, false
	}

	rep := RestoreReport{Element: el}
	if live, ok := h.model.GetNode(el.Vertex.ID); ok {
		rep.Vertex = live
	} else {
		n := el.Vertex.Clone()
		n.LastPosition = el.Position
		rep.Vertex = h.store.InsertVertex(n)
		h.model.PutNode(n.ID, n.Labels, rep.Vertex)
	}

	for _, e := range el.Edges {
		if _, live := h.model.GetEdge(e.ID); live {
			continue
		}
		eh, err := h.relink(e)
		if err != nil {
			h.logger.Warn("dropping edge on undo", "id", e.ID, "err", err)
			rep.Dropped = append(rep.Dropped, err)
			continue
		}
		rep.Restored = append(rep.Restored, eh)
	}

	h.redo.Push(el)
	h.logger.Debug("undid delete", "id", el.Vertex.ID, "edges", len(rep.Restored), "dropped", len(rep.Dropped))
	return rep, true
}

func (h *History) relink(e entity.Edge) (store.EdgeHandle, error) {
	src, ok := h.model.GetNode(e.SourceID)
	if !ok {
		return 0, errors.New(errors.ErrCodeDanglingEndpoint, "edge %q: source %q no longer exists", e.ID, e.SourceID)
	}
	dst, ok := h.model.GetNode(e.TargetID)
	if !ok {
		return 0, errors.New(errors.ErrCodeDanglingEndpoint, "edge %q: target %q no longer exists", e.ID, e.TargetID)
	}
	eh, err := h.store.InsertEdge(src, dst, e)
	if err != nil {
		return 0, fmt.Errorf("relink edge %q: %w", e.ID, err)
	}
	h.model.PutEdge(e.ID, e.Types, eh)
	return eh, nil
}

// Redo re-applies the most recently undone deletion and records it for
// undo again. It returns false when there is nothing to redo. A redo step
// whose vertex is no longer live is discarded.
func (h *History) Redo() (*DeletedElement, bool) {
	el, ok := h.redo.Pop()
	if !ok {
		return nil, false
	}
	v, ok := h.model.GetNode(el.Vertex.ID)
	if !ok {
		h.logger.Debug("discarding stale redo step", "id", el.Vertex.ID)
		return nil, false
	}
	return h.remove(v)
}

// CanUndo reports whether Undo has work to do.
func (h *History) CanUndo() bool { return h.undo.Len() > 0 }

// CanRedo reports whether Redo has work to do.
func (h *History) CanRedo() bool { return h.redo.Len() > 0 }

// UndoLen returns the number of undo steps held.
func (h *History) UndoLen() int { return h.undo.Len() }

// RedoLen returns the number of redo steps held.
func (h *History) RedoLen() int { return h.redo.Len() }

// Capacity returns the size of each ring.
func (h *History) Capacity() int { return h.undo.Cap() }

// Clear forgets every undo and redo step.
func (h *History) Clear() {
	h.undo.Clear()
	h.redo.Clear()
}
