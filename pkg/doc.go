// Package pkg provides the libraries behind querygraph, an editor for the
// node/relationship results of graph database queries.
//
// # Overview
//
// The pkg directory is organized into four areas:
//
//  1. Engine: [store] (handle-indexed adjacency), [model] (external id
//     registry), [history] (bounded undo/redo of deletions) and
//     [pathfind] (weighted shortest paths).
//  2. Editing: [editor] ties the engine together with [style] (label
//     colors and radii), [layout] (strategies and the auto-layout
//     controller) and [schedule] (cancellable timers).
//  3. Surfaces: [graph] (JSON wire format), [render] and
//     [render/nodelink] (Graphviz diagrams), [cache] (rendered artifacts).
//  4. Ambient: [config], [errors], [observability], [buildinfo].
//
// # Architecture
//
//	query result JSON
//	        ↓
//	   [graph] package (decode + Load)
//	        ↓
//	   [editor] package (store + model + history + styles)
//	        ↓
//	   [pathfind] package (optional path highlight)
//	        ↓
//	   [render/nodelink] package (DOT → SVG/PNG/PDF)
//
// # Quick Start
//
//	ed := editor.New(editor.Options{})
//	defer ed.Close()
//
//	g, _ := graph.ReadGraphFile("query.json")
//	graph.Load(ed, g)
//
//	ed.Delete("b")
//	ed.Undo()
//
//	res, _ := ed.FindPath("a", "c", "cost")
//	fmt.Println(res.PathCount(), res.TotalWeight)
package pkg
