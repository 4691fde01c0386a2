package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/querygraph/pkg/editor"
	"github.com/matzehuels/querygraph/pkg/errors"
	"github.com/matzehuels/querygraph/pkg/graph"
	"github.com/matzehuels/querygraph/pkg/layout"
	"github.com/matzehuels/querygraph/pkg/schedule"
)

// editCommand creates the edit command.
func (c *CLI) editCommand() *cobra.Command {
	var script, output string

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Replay an edit script and write the resulting graph",
		Long: `Replay an edit script against the graph and write the result.

The script holds one command per line; blank lines and lines starting
with # are ignored:

  delete ID          delete a node and its edges (undoable) or a single edge
  undo               restore the last deleted node
  redo               delete it again
  layout NAME        switch the layout strategy
  path FROM TO [W]   find the lightest path, weighing edges by property W

Use --script - to read the script from stdin. The graph is written to
--output, or to stdout when no output is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), args[0], script, output)
		},
	}

	cmd.Flags().StringVarP(&script, "script", "s", "", "edit script file, or - for stdin (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the edited graph here instead of stdout")
	_ = cmd.MarkFlagRequired("script")
	return cmd
}

func (c *CLI) runEdit(ctx context.Context, input, script, output string) error {
	var r io.Reader = os.Stdin
	if script != "-" {
		f, err := os.Open(script)
		if err != nil {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "open script %s", script)
		}
		defer f.Close()
		r = f
	}

	ed, err := c.openGraph(ctx, input, schedule.NewManual())
	if err != nil {
		return err
	}
	defer ed.Close()

	// Status lines must not interleave with a graph written to stdout.
	graphOut := c.out
	if output == "" {
		c.out = os.Stderr
		defer func() { c.out = graphOut }()
	}

	prog := newProgress(c.Logger)
	n, err := c.replay(ed, r)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Applied %d edits", n))

	snap := ed.Snapshot()
	if output == "" {
		return graph.WriteGraph(snap, graphOut)
	}
	if err := graph.WriteGraphFile(snap, output); err != nil {
		return err
	}
	c.printSuccess("Wrote %d nodes, %d edges", len(snap.Nodes), len(snap.Edges))
	c.printFile(output, false)
	return nil
}

// replay applies every script line and returns the number of commands run.
// No-op commands (deleting an unknown id, undo with empty history) are
// reported and skipped; malformed lines abort.
func (c *CLI) replay(ed *editor.Editor, r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)
	var n, lineNo int
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := c.apply(ed, strings.Fields(line)); err != nil {
			return n, fmt.Errorf("line %d: %w", lineNo, err)
		}
		n++
	}
	return n, sc.Err()
}

func (c *CLI) apply(ed *editor.Editor, f []string) error {
	switch cmd, args := f[0], f[1:]; cmd {
	case "delete":
		if len(args) != 1 {
			return usageErr("delete ID")
		}
		if !ed.Delete(args[0]) && !ed.DeleteEdge(args[0]) {
			c.printWarning("delete %s: no such node or edge", args[0])
		}
	case "undo":
		if len(args) != 0 {
			return usageErr("undo")
		}
		if !ed.Undo() {
			c.printWarning("undo: nothing to undo")
		}
	case "redo":
		if len(args) != 0 {
			return usageErr("redo")
		}
		if !ed.Redo() {
			c.printWarning("redo: nothing to redo")
		}
	case "layout":
		if len(args) != 1 {
			return usageErr("layout NAME")
		}
		s, err := layout.ParseStrategy(args[0])
		if err != nil {
			return err
		}
		return ed.SetLayoutStrategy(s)
	case "path":
		if len(args) < 2 || len(args) > 3 {
			return usageErr("path FROM TO [WEIGHT]")
		}
		weight := ""
		if len(args) == 3 {
			weight = args[2]
		}
		if err := pickPath(ed, args[0], args[1]); err != nil {
			return err
		}
		if ed.RunShortestPath(weight) {
			c.printInfo("path %s (weight %g)", ed.PathSummary(), ed.LastPath().TotalWeight)
		} else {
			c.printWarning("no path from %s to %s", args[0], args[1])
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown command %q", cmd)
	}
	return nil
}

func usageErr(usage string) error {
	return errors.New(errors.ErrCodeInvalidInput, "usage: %s", usage)
}
