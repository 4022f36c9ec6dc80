package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/sang765/tmr-novel-tracking/lib/novelstore"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var snapshotPath string
var configPath string

var rootCmd = &cobra.Command{
	Use:   "tracker-cli",
	Short: "Operator tool for the novel tracker.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", "cache.json", "path to the snapshot file")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "path to the tracker config")
}

func ExecuteContext(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func describeChange(ev novelstore.ChangeEvent) string {
	switch ev.Kind {
	case novelstore.EventNewNovel:
		return fmt.Sprintf("%s / %s", ev.Record.Status, ev.Record.Chapter)
	case novelstore.EventStatusChanged:
		return fmt.Sprintf("%s -> %s", ev.OldStatus, ev.NewStatus)
	case novelstore.EventChapterUpdated:
		return fmt.Sprintf("%s -> %s", ev.OldChapter, ev.NewChapter)
	}
	return ""
}

func appendEventRows(t table.Writer, events []novelstore.ChangeEvent) {
	t.AppendHeader(table.Row{"Kind", "ID", "Title", "Change"})
	for _, ev := range events {
		t.AppendRow(table.Row{ev.Kind.String(), ev.ID, ev.Record.Title, describeChange(ev)})
	}
}
