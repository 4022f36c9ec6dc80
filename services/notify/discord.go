package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sang765/tmr-novel-tracking/lib/novelstore"
	"github.com/sang765/tmr-novel-tracking/lib/scrapers/hako"
	"github.com/sang765/tmr-novel-tracking/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("tmr.services.notify")

// WebhooksEnv holds the webhook url(s) notifications go to, comma
// separated. Leaving it unset disables delivery without failing runs.
const WebhooksEnv = "CFU_NOVEL_WEBHOOKS"

// discord caps embeds per webhook post
const maxEmbedsPerPost = 10

const (
	colorNewNovel       = 0x2ECC71
	colorStatusChanged  = 0xE67E22
	colorChapterUpdated = 0x3498DB
)

type DiscordOptions struct {
	// seconds to wait between webhook posts, rate-limit headroom
	PauseSeconds int `json:"pause_seconds"`
}

type Discord struct {
	webhooks []string
	pause    time.Duration
	http     *resty.Client
}

func NewDiscord(opts DiscordOptions) *Discord {
	if opts.PauseSeconds <= 0 {
		opts.PauseSeconds = 1
	}

	var webhooks []string
	for _, raw := range strings.Split(os.Getenv(WebhooksEnv), ",") {
		trimmed := strings.TrimSpace(raw)
		if trimmed != "" {
			webhooks = append(webhooks, trimmed)
		}
	}
	if len(webhooks) == 0 {
		slog.Info("discord delivery disabled", "env", WebhooksEnv)
	}

	client := resty.New()
	client.SetTimeout(time.Second * 10)
	telemetry.InstrumentResty(client, "tmr.services.notify.discord.http")

	return &Discord{
		webhooks: webhooks,
		pause:    time.Duration(opts.PauseSeconds) * time.Second,
		http:     client,
	}
}

type embed struct {
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description"`
	Color       int    `json:"color"`
	Timestamp   string `json:"timestamp,omitempty"`
}

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

func mirrorLines(novelUrl string) string {
	var b strings.Builder
	for _, host := range hako.Mirrors {
		fmt.Fprintf(&b, "- Link tên miền %s: %s\n", host, hako.Mirror(novelUrl, host))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func buildEmbed(ev novelstore.ChangeEvent) embed {
	var b strings.Builder
	out := embed{
		Title: ev.Record.Title,
		URL:   ev.Record.URL,
	}

	switch ev.Kind {
	case novelstore.EventNewNovel:
		out.Color = colorNewNovel
		b.WriteString("Truyện mới được theo dõi.\n")
		fmt.Fprintf(&b, "> **Trạng thái:** %s\n", ev.Record.Status)
		if ev.Record.Chapter != "" {
			fmt.Fprintf(&b, "> **Chương mới nhất:** %s\n", ev.Record.Chapter)
		}
	case novelstore.EventStatusChanged:
		out.Color = colorStatusChanged
		fmt.Fprintf(&b, "> **Trạng thái:** %s ➜ %s\n", ev.OldStatus, ev.NewStatus)
	case novelstore.EventChapterUpdated:
		out.Color = colorChapterUpdated
		fmt.Fprintf(&b, "> **Chương mới nhất:** %s ➜ %s\n", ev.OldChapter, ev.NewChapter)
		if number, ok := hako.ChapterNumber(ev.NewChapter); ok {
			fmt.Fprintf(&b, "> **Số chương:** %g\n", number)
		}
	}

	b.WriteString(mirrorLines(ev.Record.URL))
	if !ev.Record.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "\n> **Cập nhật:** <t:%d:R>", ev.Record.UpdatedAt.Unix())
		out.Timestamp = ev.Record.UpdatedAt.Format(time.RFC3339)
	}

	out.Description = b.String()
	return out
}

func batchEmbeds(embeds []embed) [][]embed {
	var batches [][]embed
	for start := 0; start < len(embeds); start += maxEmbedsPerPost {
		end := start + maxEmbedsPerPost
		if end > len(embeds) {
			end = len(embeds)
		}
		batches = append(batches, embeds[start:end])
	}
	return batches
}

// Notify posts one embed per event to every configured webhook,
// batched to discord's embed limit with a pause between posts.
func (d *Discord) Notify(ctx context.Context, events []novelstore.ChangeEvent) error {
	if len(events) == 0 {
		return nil
	}
	if len(d.webhooks) == 0 {
		slog.InfoContext(ctx, "skipping discord delivery, no webhooks configured", "events", len(events))
		return nil
	}

	ctx, span := tracer.Start(ctx, "discord:Notify", trace.WithAttributes(
		attribute.Int("events", len(events)),
	))
	defer span.End()

	embeds := make([]embed, len(events))
	for i, ev := range events {
		embeds[i] = buildEmbed(ev)
	}

	var errlist []error
	posted := 0
	for _, webhook := range d.webhooks {
		for _, batch := range batchEmbeds(embeds) {
			if posted > 0 {
				time.Sleep(d.pause)
			}
			posted++

			err := d.post(ctx, webhook, batch)
			if err != nil {
				errlist = append(errlist, err)
			}
		}
	}

	err := errors.Join(errlist...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delivery failed")
	}
	return err
}

func (d *Discord) post(ctx context.Context, webhook string, embeds []embed) error {
	res, err := d.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(webhookPayload{Embeds: embeds}).
		Post(webhook)
	if err != nil {
		return err
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		return fmt.Errorf("webhook returned %s", res.Status())
	}
	return nil
}
