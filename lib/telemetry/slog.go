package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the default logger for every entry point.
// Verbose mode turns on debug-level logging, which also enables
// raw request/response dumps in clients instrumented with restyutil.
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
