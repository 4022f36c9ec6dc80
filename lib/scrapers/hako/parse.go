package hako

import (
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sang765/tmr-novel-tracking/lib/htmlutil"
	"github.com/sang765/tmr-novel-tracking/lib/timezone"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
)

const origin = "https://ln.hako.vn"

// Mirrors are the hostnames the site is reachable under. Notification
// links are emitted for all of them since regional blocks tend to hit
// the domains one at a time.
var Mirrors = []string{"docln.net", "docln.sbs", "ln.hako.vn"}

// Novel is one showcase entry as it appears on the page, status text
// left exactly as the site renders it.
type Novel struct {
	ID        string
	Title     string
	URL       string
	Status    string
	Chapter   string
	UpdatedAt time.Time
}

var novelIDRegex = regexp.MustCompile(`/truyen/(\d+)`)

// NovelID extracts the numeric site id from a novel href, or ""
// when the href carries none.
func NovelID(href string) string {
	groups := novelIDRegex.FindStringSubmatch(href)
	if len(groups) < 2 {
		return ""
	}
	return groups[1]
}

// ParseShowcase extracts the novel entries from one page of the
// group showcase. A page without the showcase container wraps
// ParseFailed; individual broken entries are skipped with a warning.
func ParseShowcase(html string) ([]Novel, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ParseFailed, err)
	}

	list := doc.Find("section.showcase-list")
	if list.Length() == 0 {
		return nil, fmt.Errorf("%w: showcase container not found", ParseFailed)
	}

	var novels []Novel
	list.Find("div.showcase-item").Each(func(_ int, item *goquery.Selection) {
		link := item.Find("h5.series-name a").First()
		if link.Length() == 0 {
			slog.Warn("skipping showcase entry without a title link")
			return
		}
		title := htmlutil.CleanText(htmlutil.GetText(link.Get(0)))
		href := link.AttrOr("href", "")
		if title == "" || href == "" {
			slog.Warn("skipping showcase entry with an empty title link", "title", title, "href", href)
			return
		}

		statusValues := item.Find("span.status-value")
		status := ""
		if statusValues.Length() > 0 {
			status = htmlutil.CleanText(statusValues.First().Text())
		}

		chapter := htmlutil.CleanText(item.Find(".series-update a").First().Text())

		novels = append(novels, Novel{
			ID:        NovelID(href),
			Title:     title,
			URL:       resolveHref(href),
			Status:    status,
			Chapter:   chapter,
			UpdatedAt: parseUpdateTime(statusValues),
		})
	})

	return novels, nil
}

func resolveHref(href string) string {
	if strings.HasPrefix(href, "/") {
		return origin + href
	}
	return href
}

// the second status-value span wraps a <time> element whose datetime
// attribute is rfc3339; older markup only carries a loosely formatted
// local time in the title attribute
func parseUpdateTime(statusValues *goquery.Selection) time.Time {
	if statusValues.Length() < 2 {
		return time.Time{}
	}
	el := statusValues.Eq(1).Find("time").First()
	if el.Length() == 0 {
		return time.Time{}
	}

	if datetime, ok := el.Attr("datetime"); ok && datetime != "" {
		parsed, err := time.Parse(time.RFC3339, datetime)
		if err == nil {
			return parsed.In(timezone.Location)
		}
		slog.Warn("unparseable datetime attribute", "datetime", datetime, "err", err)
	}
	if title, ok := el.Attr("title"); ok && title != "" {
		parsed, err := dateparse.ParseIn(title, timezone.Location)
		if err == nil {
			return parsed
		}
		slog.Warn("unparseable time title attribute", "title", title, "err", err)
	}

	return time.Time{}
}

var chapterPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Chương\s+(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)Chapter\s+(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)Chap\s+(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`#(\d+(?:\.\d+)?)`),
}

// ChapterNumber recovers a numeric marker from a latest-chapter
// label. Display-only; snapshot diffing compares the raw labels.
func ChapterNumber(label string) (float64, bool) {
	for _, pattern := range chapterPatterns {
		groups := pattern.FindStringSubmatch(label)
		if len(groups) < 2 {
			continue
		}
		number, err := strconv.ParseFloat(groups[1], 64)
		if err != nil {
			continue
		}
		return number, true
	}
	return 0, false
}

// Mirror rewrites the host of a novel url to one of the site mirrors.
func Mirror(rawUrl, host string) string {
	link, err := url.Parse(rawUrl)
	if err != nil {
		return rawUrl
	}
	link.Host = host
	return link.String()
}
