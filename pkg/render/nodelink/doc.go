// Package nodelink renders query-result graphs as node-link diagrams.
//
// # Overview
//
// This package produces directed graph pictures using Graphviz: nodes are
// filled circles sized and colored by label, edges are arrows labeled
// with their relationship type.
//
// # Usage
//
// Convert an editor snapshot to DOT, then render to SVG:
//
//	opts := nodelink.Options{Strategy: layout.Radial}
//	dot := nodelink.ToDOT(ed.Snapshot(), opts)
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.Engine(opts.Strategy))
//
// or in one step with [Render].
//
// # Layout Strategies
//
// Placement is Graphviz's job. Each strategy maps to an engine:
//
//	spring           fdp (nodes with a known position are pinned)
//	radial           twopi
//	horizontal-tree  dot, rankdir=LR
//	vertical-tree    dot, rankdir=TB
//	grid             osage
//
// # Path Highlighting
//
// [Options.Highlight] marks the nodes and edges of a shortest path; they
// are drawn with a heavy red outline.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
