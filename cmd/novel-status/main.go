package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/sang765/tmr-novel-tracking/lib/configutil"
	"github.com/sang765/tmr-novel-tracking/lib/novelstore"
	"github.com/sang765/tmr-novel-tracking/lib/serviceutil"
	"github.com/sang765/tmr-novel-tracking/lib/telemetry"
	"github.com/sang765/tmr-novel-tracking/services/report"

	"github.com/joho/godotenv"
)

type Config struct {
	Snapshot string         `json:"snapshot"`
	Report   report.Options `json:"report"`
}

func main() {
	verbose := flag.Bool("v", false, "enable verbose logging")
	flag.Parse()

	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", "err", err)
	}
	telemetry.InitSlog(*verbose)

	ctx := serviceutil.SignalContext()

	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to read config", err)
	}

	t, err := telemetry.SetupFromEnv(ctx, "novel-status")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer t.Shutdown(context.Background())

	store := novelstore.NewStore(config.Snapshot)
	snapshot := store.Load(ctx)

	reporter := report.New(config.Report)
	err = reporter.Write(ctx, snapshot)
	if err != nil {
		serviceutil.Fatal("failed to write status report", err)
	}

	slog.Info(
		"status report written",
		"path", reporter.OutputPath(),
		"novels", len(snapshot.Novels),
	)
}
