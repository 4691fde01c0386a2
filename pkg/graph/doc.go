// Package graph provides the JSON wire format for query-result graphs.
//
// This package defines the canonical serialized form of an editor graph,
// used for input files, exported results, the artifact cache key and
// cross-tool interoperability.
//
// # Architecture
//
// The package sits at the serialization boundary:
//
//   - [Graph], [Node], [Edge]: Serialization types (this package)
//   - pkg/editor.Editor: Live graph with history and styling
//   - pkg/entity: Record types held by the editor
//
// Use [FromSnapshot] to export and [Load] to ingest.
//
// # Graph Serialization
//
// Graphs use a node-link JSON format:
//
//	{
//	  "nodes": [
//	    {"id": "n1", "labels": ["Person"], "properties": {"name": "Ada"}},
//	    {"id": "n2", "labels": ["Person"], "properties": {"name": "Alan"}}
//	  ],
//	  "edges": [
//	    {"id": "e1", "types": ["KNOWS"], "source": "n1", "target": "n2",
//	     "properties": {"since": 1936}}
//	  ]
//	}
//
// Property order is preserved in both directions. Numbers decode as
// json.Number, so integer ids survive a round trip unchanged.
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("result.json")    // File → Graph
//	res, _ := graph.Load(ed, g)                    // Graph → Editor
//	graph.WriteGraph(ed.Snapshot(), os.Stdout)     // Editor → JSON
//
// # Display Attributes
//
// Color, radius and line style are written for consumers that draw the
// graph, but ignored by [Load]: the editor derives them from labels.
// Positions are loaded.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
