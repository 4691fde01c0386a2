// Package render provides visualization output for query-result graphs.
//
// # Overview
//
// Graphs are drawn as node-link diagrams by the [nodelink] subpackage,
// which turns an editor snapshot into Graphviz DOT and renders it to SVG.
// This package holds the format conversions shared by every renderer.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	svg, _ := nodelink.Render(ctx, snap, opts)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Formats
//
// [ParseFormat] accepts "svg", "dot", "png" and "pdf".
package render
