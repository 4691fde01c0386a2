package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/querygraph/pkg/editor"
	"github.com/matzehuels/querygraph/pkg/entity"
	"github.com/matzehuels/querygraph/pkg/layout"
	"github.com/matzehuels/querygraph/pkg/observability"
)

// highlightColor outlines path members.
const highlightColor = "#d62728"

// pointsPerInch converts screen pixels to Graphviz inches.
const pointsPerInch = 72.0

// Highlight names the nodes and edges of a path to emphasize.
type Highlight struct {
	Nodes []string
	Edges []string
}

// Options configures node-link diagram rendering.
type Options struct {
	// Strategy selects the Graphviz engine and rank direction.
	Strategy layout.Strategy

	// Highlight marks a path.
	Highlight Highlight

	// Detailed includes labels and properties in node captions.
	// When false, only the node ID is shown.
	Detailed bool
}

// Engine returns the Graphviz layout engine for a strategy.
func Engine(s layout.Strategy) graphviz.Layout {
	switch s {
	case layout.Radial:
		return graphviz.TWOPI
	case layout.HorizontalTree, layout.VerticalTree:
		return graphviz.DOT
	case layout.Grid:
		return graphviz.OSAGE
	default:
		return graphviz.FDP
	}
}

func rankdir(s layout.Strategy) string {
	if s == layout.HorizontalTree {
		return "LR"
	}
	return "TB"
}

// ToDOT converts a snapshot to Graphviz DOT source. Nodes and edges are
// written in snapshot order so equal snapshots give identical DOT.
func ToDOT(snap editor.Snapshot, opts Options) string {
	hiNodes := set(opts.Highlight.Nodes)
	hiEdges := set(opts.Highlight.Edges)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir(opts.Strategy))
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10, fixedsize=true];\n")
	buf.WriteString("  edge [fontsize=8, arrowsize=0.7];\n")
	buf.WriteString("\n")

	for _, n := range snap.Nodes {
		attrs := nodeAttrs(n, opts, hiNodes[n.ID])
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range snap.Edges {
		attrs := edgeAttrs(e, hiEdges[e.ID])
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.SourceID, e.TargetID, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func set(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func fmtLabel(n entity.Node, detailed bool) string {
	if !detailed {
		return n.ID
	}
	parts := []string{n.ID}
	if len(n.Labels) > 0 {
		parts = append(parts, ":"+strings.Join(n.Labels, ":"))
	}
	for _, k := range n.Properties.Keys() {
		v, _ := n.Properties.Get(k)
		parts = append(parts, fmt.Sprintf("%s: %v", k, v))
	}
	return strings.Join(parts, "\n")
}

func nodeAttrs(n entity.Node, opts Options, highlighted bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed))}
	if n.Radius > 0 {
		attrs = append(attrs, "width="+inches(2*n.Radius))
	}
	if n.Color != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", n.Color))
	}
	if opts.Strategy == layout.Spring && n.LastPosition != (entity.Position{}) {
		attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", inches(n.LastPosition.X), inches(-n.LastPosition.Y)))
	}
	if highlighted {
		attrs = append(attrs, fmt.Sprintf("color=%q", highlightColor), "penwidth=3")
	}
	return attrs
}

func edgeAttrs(e entity.Edge, highlighted bool) []string {
	var attrs []string
	if len(e.Types) > 0 {
		attrs = append(attrs, fmt.Sprintf("label=%q", strings.Join(e.Types, "|")))
	}
	if e.LineStyle != "" {
		attrs = append(attrs, "style="+e.LineStyle)
	}
	switch {
	case highlighted:
		attrs = append(attrs, fmt.Sprintf("color=%q", highlightColor), "penwidth=3")
	default:
		if e.LineColor != "" {
			attrs = append(attrs, fmt.Sprintf("color=%q", e.LineColor))
		}
		if e.LineWeight > 0 {
			attrs = append(attrs, "penwidth="+strconv.FormatFloat(e.LineWeight, 'f', -1, 64))
		}
	}
	return attrs
}

func inches(px float64) string {
	return strconv.FormatFloat(px/pointsPerInch, 'f', 3, 64)
}

// Render converts a snapshot to SVG using the engine for opts.Strategy.
func Render(ctx context.Context, snap editor.Snapshot, opts Options) ([]byte, error) {
	return RenderSVG(ctx, ToDOT(snap, opts), Engine(opts.Strategy))
}

// RenderSVG renders DOT source to SVG with the given Graphviz engine.
func RenderSVG(ctx context.Context, dot string, engine graphviz.Layout) (svg []byte, err error) {
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, string(engine), strings.Count(dot, "];\n"))
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, string(engine), time.Since(start), err) }()

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(engine)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag so the picture scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
