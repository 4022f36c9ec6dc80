package commands

import (
	"fmt"
	"os"

	"github.com/sang765/tmr-novel-tracking/lib/configutil"
	"github.com/sang765/tmr-novel-tracking/lib/novelstore"
	"github.com/sang765/tmr-novel-tracking/lib/scrapers/hako"
	"github.com/sang765/tmr-novel-tracking/lib/timezone"
	"github.com/sang765/tmr-novel-tracking/services/tracker"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

type checkConfig struct {
	Scraper hako.Options `json:"scraper"`
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Scrapes the group page and prints the changes a real run would report, without persisting or notifying.",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := configutil.ReadConfig[checkConfig](configPath)
		if err != nil && !os.IsNotExist(err) {
			fatal(err)
		}

		client, err := hako.NewClient(config.Scraper)
		if err != nil {
			fatal(err)
		}

		pages, err := client.FetchAll(cmd.Context())
		if err != nil {
			fatal(err)
		}
		current, err := tracker.BuildSnapshot(pages, timezone.Now())
		if err != nil {
			fatal(err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"ID", "Title", "Status", "Chapter"})
		for id, record := range current.Novels {
			t.AppendRow(table.Row{id, record.Title, string(record.Status), record.Chapter})
		}
		t.Render()

		previous := novelstore.NewStore(snapshotPath).Load(cmd.Context())
		events := novelstore.Diff(previous, current)
		if len(events) == 0 {
			fmt.Println("no changes against the stored snapshot")
			return
		}

		t = newTable()
		appendEventRows(t, events)
		t.Render()
	},
}
