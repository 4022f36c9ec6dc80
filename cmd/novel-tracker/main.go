package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/sang765/tmr-novel-tracking/lib/configutil"
	"github.com/sang765/tmr-novel-tracking/lib/novelstore"
	"github.com/sang765/tmr-novel-tracking/lib/restyutil"
	"github.com/sang765/tmr-novel-tracking/lib/scrapers/hako"
	"github.com/sang765/tmr-novel-tracking/lib/serviceutil"
	"github.com/sang765/tmr-novel-tracking/lib/telemetry"
	"github.com/sang765/tmr-novel-tracking/services/notify"
	"github.com/sang765/tmr-novel-tracking/services/tracker"

	"github.com/joho/godotenv"
)

type Config struct {
	Scraper  hako.Options          `json:"scraper"`
	Snapshot string                `json:"snapshot"`
	Discord  notify.DiscordOptions `json:"discord"`
	Smtp     notify.SmtpConfig     `json:"smtp"`
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

	t, err := telemetry.SetupFromEnv(ctx, "novel-tracker")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer t.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	if *verbose {
		hako.SetRestyInstrumentOutput(
			restyutil.NewFilesystemOutput("resty_telemetry/hako"),
		)
	}

	client, err := hako.NewClient(config.Scraper)
	if err != nil {
		serviceutil.Fatal("failed to create scrape client", err)
	}

	service := tracker.NewService(
		client,
		novelstore.NewStore(config.Snapshot),
		notify.NewDiscord(config.Discord),
		notify.NewEmailDigest(config.Smtp),
	)

	err = service.Run(ctx)
	if err != nil {
		serviceutil.Fatal("check run failed", err)
	}
}
