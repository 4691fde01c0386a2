package graph

import (
	"fmt"

	"github.com/matzehuels/querygraph/pkg/editor"
)

// LoadResult counts what Load inserted. Skipped entries had ids that were
// already present.
type LoadResult struct {
	Nodes        int
	Edges        int
	SkippedNodes int
	SkippedEdges int
}

// Load ingests g into ed through AddNode and AddEdge, so loading the same
// graph twice is a no-op the second time. Node positions and edge line
// styles are restored; node colors and radii come from the editor's style
// allocator.
//
// g is validated first, so a malformed id fails the load before anything
// is inserted. An edge whose endpoint is neither in g nor already in ed
// aborts the load with an INVALID_ENDPOINT error; nodes and edges inserted
// before it stay.
func Load(ed *editor.Editor, g Graph) (LoadResult, error) {
	var res LoadResult
	if err := g.Validate(); err != nil {
		return res, err
	}
	for _, n := range g.Nodes {
		if _, ok := ed.AddNode(n.ID, n.Labels, n.Properties); !ok {
			res.SkippedNodes++
			continue
		}
		if n.X != 0 || n.Y != 0 {
			ed.SetPosition(n.ID, n.X, n.Y)
		}
		res.Nodes++
	}
	for _, e := range g.Edges {
		_, ok, err := ed.AddEdge(e.ID, e.Types, e.Source, e.Target, e.Properties)
		if err != nil {
			return res, fmt.Errorf("load edge %s: %w", e.ID, err)
		}
		if !ok {
			res.SkippedEdges++
			continue
		}
		if e.LineStyle != "" || e.LineColor != "" || e.LineWeight > 0 {
			if _, err := ed.SetEdgeStyle(e.ID, e.LineStyle, e.LineColor, e.LineWeight); err != nil {
				return res, fmt.Errorf("load edge %s: %w", e.ID, err)
			}
		}
		res.Edges++
	}
	return res, nil
}
