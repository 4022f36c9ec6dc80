package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/sang765/tmr-novel-tracking/lib/novelstore"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/codes"
)

type SmtpConfig struct {
	Server       string   `json:"server"`
	Port         int      `json:"port"`
	EmailAddress string   `json:"email_address"`
	Password     string   `json:"password"`
	Recipients   []string `json:"recipients"`
}

// EmailDigest sends one plain-text mail per run summarizing every
// change event. Leaving the smtp config empty disables it.
type EmailDigest struct {
	config SmtpConfig
}

func NewEmailDigest(config SmtpConfig) EmailDigest {
	return EmailDigest{config: config}
}

func describeEvent(ev novelstore.ChangeEvent) string {
	switch ev.Kind {
	case novelstore.EventNewNovel:
		return fmt.Sprintf("[Truyện mới] %s (%s, %s)", ev.Record.Title, ev.Record.Status, ev.Record.Chapter)
	case novelstore.EventStatusChanged:
		return fmt.Sprintf("[Trạng thái] %s: %s -> %s", ev.Record.Title, ev.OldStatus, ev.NewStatus)
	case novelstore.EventChapterUpdated:
		return fmt.Sprintf("[Chương mới] %s: %s -> %s", ev.Record.Title, ev.OldChapter, ev.NewChapter)
	}
	return fmt.Sprintf("[%s] %s", ev.Kind, ev.Record.Title)
}

func digestBody(events []novelstore.ChangeEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Có %d thay đổi trong lần kiểm tra này.\n\n", len(events))
	for _, ev := range events {
		b.WriteString(describeEvent(ev))
		b.WriteString("\n")
		b.WriteString(ev.Record.URL)
		b.WriteString("\n\n")
	}
	return b.String()
}

func (e EmailDigest) Notify(ctx context.Context, events []novelstore.ChangeEvent) error {
	if e.config.Server == "" || len(e.config.Recipients) == 0 {
		return nil
	}
	if len(events) == 0 {
		return nil
	}

	ctx, span := tracer.Start(ctx, "email:Notify")
	defer span.End()

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("TMR Novel Tracker <%s>", e.config.EmailAddress)
	mail.To = e.config.Recipients
	mail.Subject = fmt.Sprintf("Cập nhật truyện The Mavericks (%d thay đổi)", len(events))
	mail.Text = []byte(digestBody(events))

	addr := fmt.Sprintf("%s:%d", e.config.Server, e.config.Port)
	err := mail.Send(
		addr,
		smtp.PlainAuth("", e.config.EmailAddress, e.config.Password, e.config.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send digest")
		return err
	}

	return nil
}
