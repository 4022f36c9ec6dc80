package main

import (
	"context"

	"github.com/sang765/tmr-novel-tracking/cmd/tracker-cli/commands"
	"github.com/sang765/tmr-novel-tracking/lib/telemetry"
)

func main() {
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}
