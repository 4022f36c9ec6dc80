package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sang765/tmr-novel-tracking/lib/novelstore"
	"github.com/sang765/tmr-novel-tracking/lib/scrapers/hako"
	"github.com/sang765/tmr-novel-tracking/lib/textutil"
	"github.com/sang765/tmr-novel-tracking/lib/timezone"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("tmr.services.tracker")

// Notifier delivers classified change events somewhere humans read.
// Delivery failures never roll back a run.
type Notifier interface {
	Notify(ctx context.Context, events []novelstore.ChangeEvent) error
}

type Service struct {
	client    *hako.Client
	store     novelstore.Store
	notifiers []Notifier
}

func NewService(client *hako.Client, store novelstore.Store, notifiers ...Notifier) Service {
	return Service{
		client:    client,
		store:     store,
		notifiers: notifiers,
	}
}

// BuildSnapshot parses the fetched showcase pages into one snapshot.
// Entries are keyed by the numeric site id, falling back to the
// normalized title when the href carries none; the first page
// occurrence of an id wins.
func BuildSnapshot(pages []string, checkedAt time.Time) (novelstore.Snapshot, error) {
	snapshot := novelstore.NewSnapshot(checkedAt)

	for i, page := range pages {
		novels, err := hako.ParseShowcase(page)
		if err != nil {
			return snapshot, fmt.Errorf("page %d: %w", i+1, err)
		}

		for _, novel := range novels {
			id := novel.ID
			if id == "" {
				id = textutil.NormalizeName(novel.Title)
			}
			if _, seen := snapshot.Novels[id]; seen {
				continue
			}
			snapshot.Novels[id] = novelstore.Record{
				Title:     novel.Title,
				URL:       novel.URL,
				Status:    novelstore.NormalizeStatus(novel.Status),
				Chapter:   novel.Chapter,
				UpdatedAt: novel.UpdatedAt,
			}
		}
	}

	if len(snapshot.Novels) == 0 {
		return snapshot, fmt.Errorf("%w: no novels found on any page", hako.ParseFailed)
	}
	return snapshot, nil
}

// Run executes one scrape/diff/notify/persist cycle. Fetch and parse
// failures abort the run; notifier and persistence failures are
// logged and the run still counts as a success.
func (s Service) Run(ctx context.Context) error {
	runId := uuid.NewString()
	ctx, span := tracer.Start(ctx, "service:Run", trace.WithAttributes(
		attribute.String("run_id", runId),
	))
	defer span.End()

	previous := s.store.Load(ctx)

	pages, err := s.client.FetchAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return err
	}

	current, err := BuildSnapshot(pages, timezone.Now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return err
	}

	events := novelstore.Diff(previous, current)
	slog.InfoContext(
		ctx, "snapshots diffed",
		"run_id", runId,
		"novels", len(current.Novels),
		"events", len(events),
	)

	for _, notifier := range s.notifiers {
		err := notifier.Notify(ctx, events)
		if err != nil {
			slog.ErrorContext(ctx, "notifier failed", "run_id", runId, "err", err)
			span.RecordError(err)
		}
	}

	err = s.store.Save(ctx, current)
	if err != nil {
		slog.ErrorContext(ctx, "failed to persist snapshot", "run_id", runId, "err", err)
		span.RecordError(err)
	}

	return nil
}
