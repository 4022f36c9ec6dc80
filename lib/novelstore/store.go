package novelstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("tmr.lib.novelstore")

// Store persists snapshots as a flat json file, the only state the
// tracker keeps between runs.
type Store struct {
	path string
}

func NewStore(path string) Store {
	if path == "" {
		path = "cache.json"
	}
	return Store{path: path}
}

func (s Store) Path() string {
	return s.path
}

// Load reads the snapshot of the previous run. A missing, unreadable
// or outdated file degrades to the empty snapshot, which the rest of
// the pipeline treats as a first run. It never aborts a run.
func (s Store) Load(ctx context.Context) Snapshot {
	ctx, span := tracer.Start(ctx, "store:Load")
	defer span.End()

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		slog.InfoContext(ctx, "no snapshot file, treating as first run", "path", s.path)
		return NewSnapshot(time.Time{})
	}
	if err != nil {
		slog.WarnContext(ctx, "failed to read snapshot, treating as first run", "path", s.path, "err", err)
		span.RecordError(err)
		return NewSnapshot(time.Time{})
	}

	var snapshot Snapshot
	err = json.Unmarshal(raw, &snapshot)
	if err != nil {
		slog.WarnContext(ctx, "discarding malformed snapshot", "path", s.path, "err", err)
		span.RecordError(err)
		return NewSnapshot(time.Time{})
	}
	if snapshot.Version != SnapshotVersion {
		slog.WarnContext(
			ctx, "discarding snapshot with unexpected version",
			"path", s.path,
			"version", snapshot.Version,
			"expected", SnapshotVersion,
		)
		return NewSnapshot(time.Time{})
	}
	if snapshot.Novels == nil {
		snapshot.Novels = map[string]Record{}
	}

	return snapshot
}

// Save overwrites the snapshot file. Persistence is best effort, the
// caller logs failures and carries on.
func (s Store) Save(ctx context.Context, snapshot Snapshot) error {
	ctx, span := tracer.Start(ctx, "store:Save")
	defer span.End()

	raw, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to marshal snapshot")
		return err
	}
	err = os.WriteFile(s.path, raw, 0644)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write snapshot file")
		return err
	}

	slog.DebugContext(ctx, "snapshot saved", "path", s.path, "novels", len(snapshot.Novels))
	return nil
}
