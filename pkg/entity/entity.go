// Package entity defines the value records held by the graph engine.
//
// A [Node] wraps one node row of a query result (id, labels, properties)
// plus the display attributes the renderer needs; an [Edge] wraps one
// relationship row with its endpoints given as external ids. Records are
// plain values: the store keeps its own copy and snapshots taken for undo
// are deep copies made with Clone, so no record ever aliases live state.
//
// External ids are the caller's identifiers and are distinct from the
// opaque handles the store assigns (see package store).
package entity

import "slices"

// Line styles understood by the renderer.
const (
	LineSolid  = "solid"
	LineDashed = "dashed"
	LineDotted = "dotted"
)

// Position is a 2D screen coordinate reported by the renderer.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a vertex record.
type Node struct {
	ID         string     // External id, unique among live nodes
	Labels     []string   // Ordered set of labels
	Properties Properties // Ordered property map

	Color        string   // Fill color as "#rrggbb", empty when unlabeled
	Radius       float64  // Display radius
	LastPosition Position // Last known screen position
}

// NewNode returns a node with de-duplicated labels and cloned properties.
func NewNode(id string, labels []string, props Properties) Node {
	return Node{
		ID:         id,
		Labels:     OrderedSet(labels),
		Properties: props.Clone(),
	}
}

// Clone returns a deep copy of n.
func (n Node) Clone() Node {
	n.Labels = slices.Clone(n.Labels)
	n.Properties = n.Properties.Clone()
	return n
}

// HasLabel reports whether n carries label.
func (n Node) HasLabel(label string) bool { return slices.Contains(n.Labels, label) }

// Edge is a directed relationship record.
type Edge struct {
	ID         string     // External id, unique among live edges
	Types      []string   // Ordered set of relationship types
	Properties Properties // Ordered property map
	SourceID   string     // External id of the source node
	TargetID   string     // External id of the target node

	LineStyle  string  // One of LineSolid, LineDashed, LineDotted
	LineColor  string  // Stroke color as "#rrggbb"
	LineWeight float64 // Stroke width
}

// NewEdge returns an edge with de-duplicated types, cloned properties and
// the default solid line style.
func NewEdge(id string, types []string, sourceID, targetID string, props Properties) Edge {
	return Edge{
		ID:         id,
		Types:      OrderedSet(types),
		Properties: props.Clone(),
		SourceID:   sourceID,
		TargetID:   targetID,
		LineStyle:  LineSolid,
		LineColor:  "#808080",
		LineWeight: 1,
	}
}

// ValidLineStyle reports whether style is one of the known line styles.
func ValidLineStyle(style string) bool {
	switch style {
	case LineSolid, LineDashed, LineDotted:
		return true
	}
	return false
}

// Clone returns a deep copy of e.
func (e Edge) Clone() Edge {
	e.Types = slices.Clone(e.Types)
	e.Properties = e.Properties.Clone()
	return e
}

// IsLoop reports whether the edge starts and ends at the same node.
func (e Edge) IsLoop() bool { return e.SourceID == e.TargetID }

// OrderedSet returns values with duplicates and empty strings removed,
// keeping first occurrences in order. The result is never nil.
func OrderedSet(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
