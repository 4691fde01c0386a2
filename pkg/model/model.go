// Package model maps external node and edge ids to store handles.
//
// The registry is the authoritative existence check for external ids: the
// editor consults [DataModel.GetNode] / [DataModel.GetEdge] before every
// insert and treats a hit as a no-op, which makes repeated ingestion of the
// same query result idempotent.
//
// Invariant: an id present in the registry always resolves to a live handle
// in the store. The registry does not see the store, so callers that remove
// an element from the store must remove its id here in the same step (the
// editor and the edit history do).
//
// The registry also groups ids by label (nodes) and type (edges), which the
// editor uses for style assignment and the CLI for summaries.
package model

import (
	"maps"
	"slices"

	"github.com/matzehuels/querygraph/pkg/store"
)

type nodeEntry struct {
	handle store.VertexHandle
	labels []string
}

type edgeEntry struct {
	handle store.EdgeHandle
	types  []string
}

// DataModel is the id → handle registry.
//
// The zero value is not usable - use New. Not safe for concurrent use.
type DataModel struct {
	nodes map[string]nodeEntry
	edges map[string]edgeEntry

	byLabel map[string]map[string]struct{}
	byType  map[string]map[string]struct{}
}

// New returns an empty registry.
func New() *DataModel {
	return &DataModel{
		nodes:   make(map[string]nodeEntry),
		edges:   make(map[string]edgeEntry),
		byLabel: make(map[string]map[string]struct{}),
		byType:  make(map[string]map[string]struct{}),
	}
}

// PutNode registers id → h. The caller must already have verified that
// GetNode(id) misses; a second PutNode for the same id replaces the entry.
func (m *DataModel) PutNode(id string, labels []string, h store.VertexHandle) {
	if old, ok := m.nodes[id]; ok {
		unindex(m.byLabel, id, old.labels)
	}
	m.nodes[id] = nodeEntry{handle: h, labels: slices.Clone(labels)}
	index(m.byLabel, id, labels)
}

// PutEdge registers id → h with the same contract as PutNode.
func (m *DataModel) PutEdge(id string, types []string, h store.EdgeHandle) {
	if old, ok := m.edges[id]; ok {
		unindex(m.byType, id, old.types)
	}
	m.edges[id] = edgeEntry{handle: h, types: slices.Clone(types)}
	index(m.byType, id, types)
}

// GetNode returns the vertex handle registered for id.
func (m *DataModel) GetNode(id string) (store.VertexHandle, bool) {
	e, ok := m.nodes[id]
	return e.handle, ok
}

// GetEdge returns the edge handle registered for id.
func (m *DataModel) GetEdge(id string) (store.EdgeHandle, bool) {
	e, ok := m.edges[id]
	return e.handle, ok
}

// RemoveNode unregisters a node id. Unknown ids are ignored.
func (m *DataModel) RemoveNode(id string) {
	e, ok := m.nodes[id]
	if !ok {
		return
	}
	unindex(m.byLabel, id, e.labels)
	delete(m.nodes, id)
}

// RemoveEdge unregisters an edge id. Unknown ids are ignored.
func (m *DataModel) RemoveEdge(id string) {
	e, ok := m.edges[id]
	if !ok {
		return
	}
	unindex(m.byType, id, e.types)
	delete(m.edges, id)
}

// NodesWithLabel returns the ids of registered nodes carrying label, sorted.
func (m *DataModel) NodesWithLabel(label string) []string {
	return slices.Sorted(maps.Keys(m.byLabel[label]))
}

// EdgesWithType returns the ids of registered edges carrying typ, sorted.
func (m *DataModel) EdgesWithType(typ string) []string {
	return slices.Sorted(maps.Keys(m.byType[typ]))
}

// Labels returns every label in use, sorted.
func (m *DataModel) Labels() []string { return slices.Sorted(maps.Keys(m.byLabel)) }

// Types returns every edge type in use, sorted.
func (m *DataModel) Types() []string { return slices.Sorted(maps.Keys(m.byType)) }

// NodeIDs returns all registered node ids, sorted.
func (m *DataModel) NodeIDs() []string { return slices.Sorted(maps.Keys(m.nodes)) }

// EdgeIDs returns all registered edge ids, sorted.
func (m *DataModel) EdgeIDs() []string { return slices.Sorted(maps.Keys(m.edges)) }

// NumNodes returns the number of registered node ids.
func (m *DataModel) NumNodes() int { return len(m.nodes) }

// NumEdges returns the number of registered edge ids.
func (m *DataModel) NumEdges() int { return len(m.edges) }

// Clear empties both registries. It must be paired with store.Clear.
func (m *DataModel) Clear() {
	clear(m.nodes)
	clear(m.edges)
	clear(m.byLabel)
	clear(m.byType)
}

func index(idx map[string]map[string]struct{}, id string, keys []string) {
	for _, k := range keys {
		set, ok := idx[k]
		if !ok {
			set = make(map[string]struct{})
			idx[k] = set
		}
		set[id] = struct{}{}
	}
}

func unindex(idx map[string]map[string]struct{}, id string, keys []string) {
	for _, k := range keys {
		set := idx[k]
		delete(set, id)
		if len(set) == 0 {
			delete(idx, k)
		}
	}
}
