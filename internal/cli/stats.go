package cli

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/querygraph/pkg/editor"
	"github.com/matzehuels/querygraph/pkg/schedule"
)

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats [file]",
		Short: "Summarize nodes per label and edges per type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := c.openGraph(cmd.Context(), args[0], schedule.NewManual())
			if err != nil {
				return err
			}
			defer ed.Close()

			if asJSON {
				return c.writeStatsJSON(ed.Stats())
			}
			c.printStats(ed, args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print statistics as JSON")
	return cmd
}

type statsJSON struct {
	Nodes  int            `json:"nodes"`
	Edges  int            `json:"edges"`
	Labels map[string]int `json:"labels"`
	Types  map[string]int `json:"types"`
}

func (c *CLI) writeStatsJSON(st editor.Stats) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(statsJSON{Nodes: st.Vertices, Edges: st.Edges, Labels: st.Labels, Types: st.Types})
}

func (c *CLI) printStats(ed *editor.Editor, name string) {
	st := ed.Stats()

	fmt.Fprintln(c.out, StyleTitle.Render(name))
	c.printKeyValue("Nodes", StyleNumber.Render(strconv.Itoa(st.Vertices)))
	c.printKeyValue("Edges", StyleNumber.Render(strconv.Itoa(st.Edges)))

	if len(st.Labels) > 0 {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, StyleDim.Render("Labels"))
		for _, l := range slices.Sorted(maps.Keys(st.Labels)) {
			color, _ := ed.LabelColor(l)
			fmt.Fprintf(c.out, "  %s %-20s %s\n", swatch(color), l, StyleNumber.Render(strconv.Itoa(st.Labels[l])))
		}
	}
	if len(st.Types) > 0 {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, StyleDim.Render("Types"))
		for _, t := range slices.Sorted(maps.Keys(st.Types)) {
			fmt.Fprintf(c.out, "    %-20s %s\n", t, StyleNumber.Render(strconv.Itoa(st.Types[t])))
		}
	}
}
