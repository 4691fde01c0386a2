package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/querygraph/pkg/buildinfo"
	"github.com/matzehuels/querygraph/pkg/cache"
	"github.com/matzehuels/querygraph/pkg/editor"
	"github.com/matzehuels/querygraph/pkg/layout"
	"github.com/matzehuels/querygraph/pkg/render"
	"github.com/matzehuels/querygraph/pkg/render/nodelink"
	"github.com/matzehuels/querygraph/pkg/schedule"
)

// defaultPNGScale doubles the SVG resolution for raster output.
const defaultPNGScale = 2.0

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file (one format) or base path (several)
	layout   string   // layout strategy name; empty uses the config default
	formats  []string // svg, dot, png, pdf
	detailed bool     // show labels and properties in node captions
	scale    float64  // PNG scale factor
	noCache  bool     // bypass the artifact cache

	pathFrom string // highlight the path from this node...
	pathTo   string // ...to this node
	weight   string // weighing edges by this property
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: defaultPNGScale}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render the graph as a node-link diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := parseFormats(formatsStr)
			if err != nil {
				return err
			}
			opts.formats = formats
			if (opts.pathFrom == "") != (opts.pathTo == "") {
				return fmt.Errorf("--path-from and --path-to must be given together")
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.layout, "layout", "l", "", "layout: "+strategyNames())
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show labels and properties in node captions")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not read or write the render cache")
	cmd.Flags().StringVar(&opts.pathFrom, "path-from", "", "highlight the shortest path starting here")
	cmd.Flags().StringVar(&opts.pathTo, "path-to", "", "highlight the shortest path ending here")
	cmd.Flags().StringVarP(&opts.weight, "weight", "w", "", "edge property weighing the highlighted path")
	_ = cmd.RegisterFlagCompletionFunc("layout", completeLayouts)

	return cmd
}

func completeLayouts(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, s := range layout.Strategies() {
		names = append(names, s.String())
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func strategyNames() string {
	var names []string
	for _, s := range layout.Strategies() {
		names = append(names, s.String())
	}
	return strings.Join(names, ", ")
}

// parseFormats parses the --format flag. Empty means svg.
func parseFormats(s string) ([]string, error) {
	if s == "" {
		return []string{render.FormatSVG}, nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		format, err := render.ParseFormat(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		out = append(out, format)
	}
	return out, nil
}

// basePath derives the base output path. An empty output strips the
// extension from input; a known format extension is stripped from output.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if _, err := render.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil && ext != "" {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath picks the file for one format.
func outputPath(opts renderOpts, input, format string) string {
	if opts.output != "" && len(opts.formats) == 1 {
		return opts.output
	}
	return basePath(opts.output, input) + "." + format
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	ed, err := c.openGraph(ctx, input, schedule.NewManual())
	if err != nil {
		return err
	}
	defer ed.Close()

	nlOpts, err := c.nodelinkOptions(ed, opts)
	if err != nil {
		return err
	}
	dot := nodelink.ToDOT(ed.Snapshot(), nlOpts)
	logger.Debug("generated DOT", "bytes", len(dot), "layout", nlOpts.Strategy)

	ch, err := c.newCache(opts.noCache)
	if err != nil {
		return err
	}
	defer ch.Close()

	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope())
	graphHash := cache.Hash([]byte(dot))

	for _, format := range opts.formats {
		key := keyer.ArtifactKey(graphHash, cache.ArtifactKeyOpts{
			Format:    format,
			Layout:    nlOpts.Strategy.String(),
			Detailed:  opts.detailed,
			Scale:     opts.scale,
			PathNodes: nlOpts.Highlight.Nodes,
			PathEdges: nlOpts.Highlight.Edges,
		})
		data, cached, err := c.renderArtifact(ctx, ch, key, dot, format, nlOpts.Strategy, opts.scale)
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}

		path := outputPath(opts, input, format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		c.printFile(path, cached)
	}
	return nil
}

// nodelinkOptions applies the layout flag and resolves path highlighting.
func (c *CLI) nodelinkOptions(ed *editor.Editor, opts renderOpts) (nodelink.Options, error) {
	if opts.layout != "" {
		s, err := layout.ParseStrategy(opts.layout)
		if err != nil {
			return nodelink.Options{}, err
		}
		if err := ed.SetLayoutStrategy(s); err != nil {
			return nodelink.Options{}, err
		}
	}

	out := nodelink.Options{Strategy: ed.LayoutStrategy(), Detailed: opts.detailed}
	if opts.pathFrom == "" {
		return out, nil
	}

	if err := pickPath(ed, opts.pathFrom, opts.pathTo); err != nil {
		return nodelink.Options{}, err
	}
	if !ed.RunShortestPath(opts.weight) {
		c.printWarning("no path from %s to %s; rendering without highlight", opts.pathFrom, opts.pathTo)
		return out, nil
	}
	c.printInfo("path %s", ed.PathSummary())
	out.Highlight.Nodes, out.Highlight.Edges = ed.PathIDs(ed.LastPath())
	return out, nil
}

// renderArtifact returns the artifact for one format, from the cache when
// possible. DOT output is the source itself and is never cached.
func (c *CLI) renderArtifact(ctx context.Context, ch cache.Cache, key, dot, format string, s layout.Strategy, scale float64) ([]byte, bool, error) {
	if format == render.FormatDOT {
		return []byte(dot), false, nil
	}

	if data, ok, err := ch.Get(ctx, key); err != nil {
		c.Logger.Warn("cache read failed", "err", err)
	} else if ok {
		return data, true, nil
	}

	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.Engine(s))
	if err != nil {
		return nil, false, err
	}

	if render.NeedsConverter(format) {
		c.Logger.Debug("converting with rsvg-convert", "format", format)
	}
	data := svg
	switch format {
	case render.FormatPNG:
		data, err = render.ToPNG(ctx, svg, scale)
	case render.FormatPDF:
		data, err = render.ToPDF(ctx, svg)
	}
	if err != nil {
		return nil, false, err
	}

	if err := ch.Set(ctx, key, data, c.cacheTTL()); err != nil {
		c.Logger.Warn("cache write failed", "err", err)
	}
	return data, false, nil
}
