package editor

import (
	"time"

	"github.com/matzehuels/querygraph/pkg/errors"
	"github.com/matzehuels/querygraph/pkg/observability"
	"github.com/matzehuels/querygraph/pkg/pathfind"
)

// FindPath returns the lightest directed path between two nodes, weighing
// edges by the named property. An empty result means no path; unknown ids
// are NOT_FOUND errors.
func (e *Editor) FindPath(fromID, toID, weightProperty string) (pathfind.Result, error) {
	from, ok := e.model.GetNode(fromID)
	if !ok {
		return pathfind.Result{}, errors.New(errors.ErrCodeNotFound, "node %q not found", fromID)
	}
	to, ok := e.model.GetNode(toID)
	if !ok {
		return pathfind.Result{}, errors.New(errors.ErrCodeNotFound, "node %q not found", toID)
	}

	start := time.Now()
	res := pathfind.Find(e.store, from, to, pathfind.Options{
		WeightProperty: weightProperty,
		DefaultWeight:  e.defaultWeight,
	})
	observability.Editor().OnPathSearch(e.ctx, !res.Empty(), res.PathCount(), res.TotalWeight, time.Since(start))
	e.logger.Debug("path search", "from", fromID, "to", toID, "found", !res.Empty(), "edges", res.PathCount())
	return res, nil
}

// SetShortestMode turns path picking on or off. Either way the current
// picks and the last path are reset.
func (e *Editor) SetShortestMode(on bool) {
	e.shortestMode = on
	e.pathStart, e.pathEnd = "", ""
	e.lastPath = pathfind.Result{}
}

// ShortestMode reports whether path picking is on.
func (e *Editor) ShortestMode() bool { return e.shortestMode }

// PickPathVertex feeds one pick into the path state machine: the first
// pick sets the start, the second sets the end, a third starts over with
// a new start. Returns false when shortest mode is off or the id is
// unknown.
func (e *Editor) PickPathVertex(id string) bool {
	if !e.shortestMode {
		return false
	}
	if _, ok := e.model.GetNode(id); !ok {
		return false
	}
	if e.pathStart == "" || e.pathEnd != "" {
		e.pathStart, e.pathEnd = id, ""
		e.lastPath = pathfind.Result{}
		return true
	}
	e.pathEnd = id
	return true
}

// PathStart returns the picked start id, or "".
func (e *Editor) PathStart() string { return e.pathStart }

// PathEnd returns the picked end id, or "".
func (e *Editor) PathEnd() string { return e.pathEnd }

// PathCandidates lists the property names on the start node's edges,
// which are the sensible choices for a weight property.
func (e *Editor) PathCandidates() []string {
	v, ok := e.model.GetNode(e.pathStart)
	if !ok {
		return nil
	}
	return pathfind.IncidentProperties(e.store, v)
}

// RunShortestPath searches between the picked start and end nodes. It
// reports whether a path was found; the path is kept for LastPath.
func (e *Editor) RunShortestPath(weightProperty string) bool {
	e.lastPath = pathfind.Result{}
	if e.pathStart == "" || e.pathEnd == "" {
		return false
	}
	res, err := e.FindPath(e.pathStart, e.pathEnd, weightProperty)
	if err != nil {
		return false
	}
	e.lastPath = res
	return !res.Empty()
}

// LastPath returns the result of the last RunShortestPath. Deletions and
// history steps reset it.
func (e *Editor) LastPath() pathfind.Result { return e.lastPath }

// PathSummary renders LastPath as "a -[T]-> b", or "" if there is none.
func (e *Editor) PathSummary() string { return e.lastPath.Describe(e.store) }

// PathIDs translates a path into external node and edge ids.
func (e *Editor) PathIDs(r pathfind.Result) (nodeIDs, edgeIDs []string) {
	for _, v := range r.Vertices {
		if n, ok := e.store.Vertex(v); ok {
			nodeIDs = append(nodeIDs, n.ID)
		}
	}
	for _, h := range r.Edges {
		if rec, ok := e.store.Edge(h); ok {
			edgeIDs = append(edgeIDs, rec.ID)
		}
	}
	return nodeIDs, edgeIDs
}
