package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/querygraph/pkg/editor"
	"github.com/matzehuels/querygraph/pkg/errors"
	"github.com/matzehuels/querygraph/pkg/schedule"
)

type pathOpts struct {
	from   string
	to     string
	weight string
}

// pathCommand creates the path command.
func (c *CLI) pathCommand() *cobra.Command {
	var opts pathOpts

	cmd := &cobra.Command{
		Use:   "path [file]",
		Short: "Find the lightest directed path between two nodes",
		Long: `Find the lightest directed path between two nodes.

Edges are weighed by the numeric property named by --weight. Edges without
that property, or with a negative or non-numeric value, weigh the configured
default (1 unless set in [path] default_weight). Without --weight every
edge weighs the default, which counts hops. The property names found on the
start node's edges are listed as candidates.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := c.openGraph(cmd.Context(), args[0], schedule.NewManual())
			if err != nil {
				return err
			}
			defer ed.Close()
			return c.runPath(ed, opts)
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "start node id (required)")
	cmd.Flags().StringVar(&opts.to, "to", "", "end node id (required)")
	cmd.Flags().StringVarP(&opts.weight, "weight", "w", "", "edge property holding the weight")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// pickPath drives the editor's two-pick path selection.
func pickPath(ed *editor.Editor, from, to string) error {
	ed.SetShortestMode(true)
	for _, id := range []string{from, to} {
		if !ed.PickPathVertex(id) {
			return errors.New(errors.ErrCodeNotFound, "node %q not found", id)
		}
	}
	return nil
}

func (c *CLI) runPath(ed *editor.Editor, opts pathOpts) error {
	if err := pickPath(ed, opts.from, opts.to); err != nil {
		return err
	}

	if cands := ed.PathCandidates(); len(cands) > 0 {
		c.printDetail("weight candidates: %s", strings.Join(cands, ", "))
	}

	if !ed.RunShortestPath(opts.weight) {
		c.printWarning("no path from %s to %s", opts.from, opts.to)
		return nil
	}

	res := ed.LastPath()
	c.printSuccess("%s", StyleHighlight.Render(ed.PathSummary()))
	c.printKeyValue("Hops", StyleNumber.Render(strconv.Itoa(res.PathCount())))
	c.printKeyValue("Weight", StyleNumber.Render(strconv.FormatFloat(res.TotalWeight, 'g', -1, 64)))
	if opts.weight != "" {
		c.printKeyValue("Property", opts.weight)
	}
	return nil
}
