package commands

import (
	"fmt"

	"github.com/sang765/tmr-novel-tracking/lib/novelstore"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(diffCmd)
}

var diffCmd = &cobra.Command{
	Use:   "diff <old.json> <new.json>",
	Short: "Prints the change events between two snapshot files.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		previous := novelstore.NewStore(args[0]).Load(cmd.Context())
		current := novelstore.NewStore(args[1]).Load(cmd.Context())

		events := novelstore.Diff(previous, current)
		if len(events) == 0 {
			fmt.Println("no changes")
			return
		}

		t := newTable()
		appendEventRows(t, events)
		t.Render()
	},
}
