package commands

import (
	"slices"

	"github.com/sang765/tmr-novel-tracking/lib/novelstore"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Prints the novels in the current snapshot.",
	Run: func(cmd *cobra.Command, args []string) {
		store := novelstore.NewStore(snapshotPath)
		snapshot := store.Load(cmd.Context())

		ids := make([]string, 0, len(snapshot.Novels))
		for id := range snapshot.Novels {
			ids = append(ids, id)
		}
		slices.Sort(ids)

		t := newTable()
		t.AppendHeader(table.Row{"ID", "Title", "Status", "Chapter", "Updated"})
		for _, id := range ids {
			record := snapshot.Novels[id]

			updated := "unknown"
			if !record.UpdatedAt.IsZero() {
				updated = humanize.Time(record.UpdatedAt)
			}
			t.AppendRow(table.Row{id, record.Title, string(record.Status), record.Chapter, updated})
		}
		t.Render()
	},
}
