package report

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/sang765/tmr-novel-tracking/lib/novelstore"
	"github.com/sang765/tmr-novel-tracking/lib/scrapers/hako"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("tmr.services.report")

type Options struct {
	OutputPath string `json:"output_path"`
	Title      string `json:"title"`
	// hostname the novel links in the report point at
	MirrorHost string `json:"mirror_host"`
}

type Reporter struct {
	opts Options
}

func New(opts Options) Reporter {
	if opts.OutputPath == "" {
		opts.OutputPath = "novel_status.md"
	}
	if opts.Title == "" {
		opts.Title = "Trạng thái các bộ truyện - The Mavericks"
	}
	if opts.MirrorHost == "" {
		opts.MirrorHost = "docln.sbs"
	}
	return Reporter{opts: opts}
}

func (r Reporter) OutputPath() string {
	return r.opts.OutputPath
}

func unknownIfEmpty(value string) string {
	if value == "" {
		return string(novelstore.StatusUnknown)
	}
	return value
}

// Render produces the markdown status document, one block per novel
// in title order.
func (r Reporter) Render(snapshot novelstore.Snapshot) string {
	ids := make([]string, 0, len(snapshot.Novels))
	for id := range snapshot.Novels {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		left := snapshot.Novels[a]
		right := snapshot.Novels[b]
		if left.Title != right.Title {
			return strings.Compare(left.Title, right.Title)
		}
		return strings.Compare(a, b)
	})

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.opts.Title)
	checkedAt := "Không rõ"
	if !snapshot.CheckedAt.IsZero() {
		checkedAt = snapshot.CheckedAt.Format("02/01/2006 15:04")
	}
	fmt.Fprintf(&b, "Tổng cộng %d truyện - cập nhật lúc %s (GMT+7)\n\n", len(snapshot.Novels), checkedAt)

	for _, id := range ids {
		record := snapshot.Novels[id]

		link := hako.Mirror(record.URL, r.opts.MirrorHost)
		fmt.Fprintf(&b, "[%s](<%s>)\n", record.Title, link)
		fmt.Fprintf(&b, "> **Trạng thái:** %s\n", unknownIfEmpty(string(record.Status)))
		fmt.Fprintf(&b, "> **Chương mới nhất:** %s\n", unknownIfEmpty(record.Chapter))
		if record.UpdatedAt.IsZero() {
			b.WriteString("> **Cập nhật:** Không rõ\n")
		} else {
			fmt.Fprintf(&b, "> **Cập nhật:** <t:%d:R>\n", record.UpdatedAt.Unix())
		}
		b.WriteString("\n")
	}

	return b.String()
}

// Write renders the snapshot and persists the document to the
// configured output path.
func (r Reporter) Write(ctx context.Context, snapshot novelstore.Snapshot) error {
	ctx, span := tracer.Start(ctx, "reporter:Write")
	defer span.End()

	err := os.WriteFile(r.opts.OutputPath, []byte(r.Render(snapshot)), 0644)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write report")
		return err
	}
	return nil
}
