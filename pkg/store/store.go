// Package store implements the mutable vertex/edge arena behind the editor.
//
// Vertices and directed edges live in maps keyed by opaque integer handles.
// Handles are allocated from a monotonically increasing counter and are
// never reused, so a stale handle can never alias a newer element: once an
// element is removed (or the store is cleared) every lookup with its handle
// reports "not live".
//
// Edges reference their endpoints by handle only; vertices do not own
// edges. The store deliberately does not cascade: [Store.RemoveVertex]
// refuses to detach a vertex that still has incident edges, leaving the
// delete policy (and the snapshot it needs for undo) to the layer above.
//
// Store is not safe for concurrent use. The editor is the single writer.
package store

import (
	"maps"
	"slices"

	"github.com/matzehuels/querygraph/pkg/entity"
	"github.com/matzehuels/querygraph/pkg/errors"
)

// VertexHandle identifies a live vertex. The zero value is never live.
type VertexHandle uint64

// EdgeHandle identifies a live edge. The zero value is never live.
type EdgeHandle uint64

type vertex struct {
	node entity.Node
	in   map[EdgeHandle]struct{}
	out  map[EdgeHandle]struct{}
}

type edge struct {
	rec entity.Edge
	src VertexHandle
	dst VertexHandle
}

// Store is an adjacency-list graph of vertices and directed edges.
//
// The zero value is not usable - use New.
type Store struct {
	vertices map[VertexHandle]*vertex
	edges    map[EdgeHandle]*edge
	next     uint64
}

// New returns an empty store.
func New() *Store {
	return &Store{
		vertices: make(map[VertexHandle]*vertex),
		edges:    make(map[EdgeHandle]*edge),
	}
}

func (s *Store) alloc() uint64 {
	s.next++
	return s.next
}

// InsertVertex adds n with empty incoming and outgoing edge sets and
// returns its new handle. It always succeeds; id uniqueness is the
// registry's concern.
func (s *Store) InsertVertex(n entity.Node) VertexHandle {
	h := VertexHandle(s.alloc())
	s.vertices[h] = &vertex{
		node: n.Clone(),
		in:   make(map[EdgeHandle]struct{}),
		out:  make(map[EdgeHandle]struct{}),
	}
	return h
}

// InsertEdge adds a directed edge src→dst carrying e.
// Returns an ErrCodeInvalidEndpoint error if either handle is not live.
func (s *Store) InsertEdge(src, dst VertexHandle, e entity.Edge) (EdgeHandle, error) {
	from, ok := s.vertices[src]
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidEndpoint, "source vertex %d is not live (edge %q)", src, e.ID)
	}
	to, ok := s.vertices[dst]
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidEndpoint, "target vertex %d is not live (edge %q)", dst, e.ID)
	}

	h := EdgeHandle(s.alloc())
	s.edges[h] = &edge{rec: e.Clone(), src: src, dst: dst}
	from.out[h] = struct{}{}
	to.in[h] = struct{}{}
	return h, nil
}

// RemoveVertex detaches the vertex. It reports false and changes nothing
// when the handle is not live or when the vertex still has incident edges;
// callers must remove those edges first.
func (s *Store) RemoveVertex(h VertexHandle) bool {
	v, ok := s.vertices[h]
	if !ok {
		return false
	}
	if len(v.in) > 0 || len(v.out) > 0 {
		return false
	}
	delete(s.vertices, h)
	return true
}

// RemoveEdge detaches the edge from both endpoint adjacency sets.
// It reports false when the handle is not live.
func (s *Store) RemoveEdge(h EdgeHandle) bool {
	e, ok := s.edges[h]
	if !ok {
		return false
	}
	if v, ok := s.vertices[e.src]; ok {
		delete(v.out, h)
	}
	if v, ok := s.vertices[e.dst]; ok {
		delete(v.in, h)
	}
	delete(s.edges, h)
	return true
}

// IncomingEdges returns the handles of edges ending at v, in insertion
// order. Returns nil if v is not live.
func (s *Store) IncomingEdges(v VertexHandle) []EdgeHandle {
	vx, ok := s.vertices[v]
	if !ok {
		return nil
	}
	return slices.Sorted(maps.Keys(vx.in))
}

// OutboundEdges returns the handles of edges starting at v, in insertion
// order. Returns nil if v is not live.
func (s *Store) OutboundEdges(v VertexHandle) []EdgeHandle {
	vx, ok := s.vertices[v]
	if !ok {
		return nil
	}
	return slices.Sorted(maps.Keys(vx.out))
}

// IncidentEdges returns the union of incoming and outbound edges: incoming
// first, then outbound, with self-loops listed once.
func (s *Store) IncidentEdges(v VertexHandle) []EdgeHandle {
	in := s.IncomingEdges(v)
	out := s.OutboundEdges(v)
	all := make([]EdgeHandle, 0, len(in)+len(out))
	all = append(all, in...)
	for _, h := range out {
		if !slices.Contains(in, h) {
			all = append(all, h)
		}
	}
	return all
}

// Vertex returns a copy of the node held by h.
func (s *Store) Vertex(h VertexHandle) (entity.Node, bool) {
	v, ok := s.vertices[h]
	if !ok {
		return entity.Node{}, false
	}
	return v.node.Clone(), true
}

// Edge returns a copy of the edge record held by h.
func (s *Store) Edge(h EdgeHandle) (entity.Edge, bool) {
	e, ok := s.edges[h]
	if !ok {
		return entity.Edge{}, false
	}
	return e.rec.Clone(), true
}

// Endpoints returns the source and target vertex handles of h.
func (s *Store) Endpoints(h EdgeHandle) (src, dst VertexHandle, ok bool) {
	e, ok := s.edges[h]
	if !ok {
		return 0, 0, false
	}
	return e.src, e.dst, true
}

// HasVertex reports whether h is live.
func (s *Store) HasVertex(h VertexHandle) bool {
	_, ok := s.vertices[h]
	return ok
}

// HasEdge reports whether h is live.
func (s *Store) HasEdge(h EdgeHandle) bool {
	_, ok := s.edges[h]
	return ok
}

// SetPosition records the last screen position of a vertex.
// It reports false when h is not live.
func (s *Store) SetPosition(h VertexHandle, p entity.Position) bool {
	v, ok := s.vertices[h]
	if !ok {
		return false
	}
	v.node.LastPosition = p
	return true
}

// SetLineStyle replaces the line attributes of a live edge.
func (s *Store) SetLineStyle(h EdgeHandle, style, color string, weight float64) bool {
	e, ok := s.edges[h]
	if !ok {
		return false
	}
	e.rec.LineStyle, e.rec.LineColor, e.rec.LineWeight = style, color, weight
	return true
}

// Vertices returns all live vertex handles in insertion order.
func (s *Store) Vertices() []VertexHandle { return slices.Sorted(maps.Keys(s.vertices)) }

// Edges returns all live edge handles in insertion order.
func (s *Store) Edges() []EdgeHandle { return slices.Sorted(maps.Keys(s.edges)) }

// NumVertices returns the number of live vertices.
func (s *Store) NumVertices() int { return len(s.vertices) }

// NumEdges returns the number of live edges.
func (s *Store) NumEdges() int { return len(s.edges) }

// Clear drops every vertex and edge. All previously issued handles become
// invalid; the handle counter is not reset so they stay invalid.
func (s *Store) Clear() {
	clear(s.vertices)
	clear(s.edges)
}
