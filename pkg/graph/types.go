package graph

import (
	"encoding/json"

	"github.com/matzehuels/querygraph/pkg/editor"
	"github.com/matzehuels/querygraph/pkg/entity"
)

// =============================================================================
// Graph - Query Result Serialization
// =============================================================================

// Graph is the canonical serialization format for query-result graphs.
//
// The format is human-readable and designed for round-trip fidelity:
// load → edit → export → re-load produces the same nodes and edges.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// =============================================================================
// Node
// =============================================================================

// Node is a serialized vertex.
type Node struct {
	ID         string            `json:"id"`
	Labels     []string          `json:"labels,omitempty"`
	Properties entity.Properties `json:"properties"`
	Color      string            `json:"color,omitempty"`
	Radius     float64           `json:"radius,omitempty"`
	X          float64           `json:"x,omitempty"`
	Y          float64           `json:"y,omitempty"`
}

// DisplayLabel returns the first label, or the id for unlabeled nodes.
func (n *Node) DisplayLabel() string {
	if len(n.Labels) > 0 {
		return n.Labels[0]
	}
	return n.ID
}

// =============================================================================
// Edge
// =============================================================================

// Edge is a serialized directed edge.
type Edge struct {
	ID         string            `json:"id"`
	Types      []string          `json:"types,omitempty"`
	Source     string            `json:"source"`
	Target     string            `json:"target"`
	Properties entity.Properties `json:"properties"`
	LineStyle  string            `json:"line_style,omitempty"`
	LineColor  string            `json:"line_color,omitempty"`
	LineWeight float64           `json:"line_weight,omitempty"`
}

// =============================================================================
// Snapshot ↔ Graph Conversion
// =============================================================================

// FromSnapshot converts an editor snapshot to its serialization format.
// Nodes and edges keep the snapshot's insertion order.
func FromSnapshot(snap editor.Snapshot) Graph {
	out := Graph{
		Nodes: make([]Node, len(snap.Nodes)),
		Edges: make([]Edge, len(snap.Edges)),
	}
	for i, n := range snap.Nodes {
		out.Nodes[i] = Node{
			ID:         n.ID,
			Labels:     n.Labels,
			Properties: n.Properties,
			Color:      n.Color,
			Radius:     n.Radius,
			X:          n.LastPosition.X,
			Y:          n.LastPosition.Y,
		}
	}
	for i, e := range snap.Edges {
		out.Edges[i] = Edge{
			ID:         e.ID,
			Types:      e.Types,
			Source:     e.SourceID,
			Target:     e.TargetID,
			Properties: e.Properties,
			LineStyle:  e.LineStyle,
			LineColor:  e.LineColor,
			LineWeight: e.LineWeight,
		}
	}
	return out
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}
