// Package pathfind computes weighted shortest paths over the editor graph.
//
// The search is Dijkstra-style and label-correcting: a vertex may be queued
// more than once, stale queue entries are skipped when popped. Edges are
// followed in their outgoing direction only. The weight of an edge is the
// numeric value of a caller-chosen property; edges without a usable value
// weigh [DefaultWeight].
//
// "No path" is not an error: [Find] returns an empty [Result] and callers
// tell the two cases apart by [Result.Empty].
//
// The search is synchronous and not cancellable; graphs are bounded by what
// the editor holds in memory.
package pathfind

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/querygraph/pkg/entity"
	"github.com/matzehuels/querygraph/pkg/store"
)

// DefaultWeight is the weight of an edge without a usable weight property.
const DefaultWeight = 1.0

// Graph is the read-only view of the store used by the search.
// *store.Store satisfies it.
type Graph interface {
	HasVertex(v store.VertexHandle) bool
	Vertex(v store.VertexHandle) (entity.Node, bool)
	Edge(e store.EdgeHandle) (entity.Edge, bool)
	Endpoints(e store.EdgeHandle) (src, dst store.VertexHandle, ok bool)
	IncomingEdges(v store.VertexHandle) []store.EdgeHandle
	OutboundEdges(v store.VertexHandle) []store.EdgeHandle
}

// Options tunes a search. The zero value uses DefaultWeight.
type Options struct {
	// WeightProperty names the edge property holding the weight.
	// Empty means every edge weighs DefaultWeight.
	WeightProperty string

	// DefaultWeight overrides the package DefaultWeight when positive.
	DefaultWeight float64
}

func (o Options) fallback() float64 {
	if o.DefaultWeight > 0 {
		return o.DefaultWeight
	}
	return DefaultWeight
}

// Result is an ordered path: Vertices[i] --Edges[i]--> Vertices[i+1].
type Result struct {
	Vertices    []store.VertexHandle
	Edges       []store.EdgeHandle
	TotalWeight float64
}

// Empty reports whether no path was found.
func (r Result) Empty() bool { return len(r.Vertices) == 0 }

// PathCount returns the number of edges on the path.
func (r Result) PathCount() int { return len(r.Edges) }

// Describe renders the path as "a -[TYPE]-> b -[TYPE]-> c" using external
// ids. Returns an empty string for an empty result.
func (r Result) Describe(g Graph) string {
	if r.Empty() {
		return ""
	}
	var b strings.Builder
	b.WriteString(vertexID(g, r.Vertices[0]))
	for i, eh := range r.Edges {
		label := ""
		if e, ok := g.Edge(eh); ok {
			label = e.ID
			if len(e.Types) > 0 {
				label = e.Types[0]
			}
		}
		fmt.Fprintf(&b, " -[%s]-> %s", label, vertexID(g, r.Vertices[i+1]))
	}
	return b.String()
}

func vertexID(g Graph, v store.VertexHandle) string {
	if n, ok := g.Vertex(v); ok {
		return n.ID
	}
	return fmt.Sprintf("#%d", v)
}

// Find returns the lightest path from start to end following outgoing
// edges. If start == end the result is that single vertex with no edges
// and zero weight. If either vertex is not live or end is unreachable the
// result is empty.
func Find(g Graph, start, end store.VertexHandle, opts Options) Result {
	if !g.HasVertex(start) || !g.HasVertex(end) {
		return Result{}
	}
	if start == end {
		return Result{Vertices: []store.VertexHandle{start}}
	}

	fallback := opts.fallback()
	dist := map[store.VertexHandle]float64{start: 0}
	via := make(map[store.VertexHandle]store.EdgeHandle)
	done := make(map[store.VertexHandle]bool)

	pq := NewHeapQueue[float64, store.VertexHandle]()
	pq.Insert(0, start)

	for !pq.IsEmpty() {
		cur, _ := pq.RemoveMin()
		v := cur.Value
		if done[v] || cur.Key > dist[v] {
			continue
		}
		done[v] = true
		if v == end {
			break
		}

		for _, eh := range g.OutboundEdges(v) {
			_, dst, ok := g.Endpoints(eh)
			if !ok || done[dst] {
				continue
			}
			rec, _ := g.Edge(eh)
			nd := cur.Key + EdgeWeight(rec, opts.WeightProperty, fallback)
			if old, seen := dist[dst]; !seen || nd < old {
				dist[dst] = nd
				via[dst] = eh
				pq.Insert(nd, dst)
			}
		}
	}

	if !done[end] {
		return Result{}
	}
	return reconstruct(g, start, end, via, dist[end])
}

func reconstruct(g Graph, start, end store.VertexHandle, via map[store.VertexHandle]store.EdgeHandle, total float64) Result {
	var (
		vertices = []store.VertexHandle{end}
		edges    []store.EdgeHandle
	)
	for v := end; v != start; {
		eh := via[v]
		src, _, _ := g.Endpoints(eh)
		edges = append(edges, eh)
		vertices = append(vertices, src)
		v = src
	}
	slices.Reverse(vertices)
	slices.Reverse(edges)
	return Result{Vertices: vertices, Edges: edges, TotalWeight: total}
}

// EdgeWeight returns the numeric value of e.Properties[prop], or fallback
// when prop is empty, absent, non-numeric, negative or NaN. Go numeric
// types, json.Number and numeric strings are accepted.
func EdgeWeight(e entity.Edge, prop string, fallback float64) float64 {
	if prop == "" {
		return fallback
	}
	raw, ok := e.Properties.Get(prop)
	if !ok {
		return fallback
	}
	w, ok := toFloat(raw)
	if !ok || math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return fallback
	}
	return w
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// IncidentProperties returns the sorted, de-duplicated property names found
// on v's incoming and outgoing edges. The editor offers these as weight
// property candidates once a start vertex is picked.
func IncidentProperties(g Graph, v store.VertexHandle) []string {
	keys := make(map[string]struct{})
	collect := func(hs []store.EdgeHandle) {
		for _, eh := range hs {
			if e, ok := g.Edge(eh); ok {
				for _, k := range e.Properties.Keys() {
					keys[k] = struct{}{}
				}
			}
		}
	}
	collect(g.IncomingEdges(v))
	collect(g.OutboundEdges(v))
	return slices.Sorted(maps.Keys(keys))
}
