package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/querygraph/pkg/editor"
	"github.com/matzehuels/querygraph/pkg/schedule"
)

// browseCommand creates the interactive browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var output, weight string

	cmd := &cobra.Command{
		Use:   "browse [file]",
		Short: "Walk and edit the graph interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sched := schedule.NewGroup(nil)
			defer sched.Close()

			ed, err := c.openGraph(ctx, args[0], sched)
			if err != nil {
				return err
			}
			defer ed.Close()

			p := tea.NewProgram(NewBrowseModel(ed, output, weight), tea.WithContext(ctx), tea.WithAltScreen())
			// Pause runs inside Update, where a blocking Send would deadlock.
			ed.SetListener(editor.ListenerFuncs{
				AutomaticLayout: func(on bool) { go p.Send(autoLayoutMsg(on)) },
			})
			ed.Refresh()

			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file written by the w key")
	cmd.Flags().StringVarP(&weight, "weight", "w", "", "edge property weighing path searches")
	return cmd
}
