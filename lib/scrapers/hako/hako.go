package hako

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"github.com/sang765/tmr-novel-tracking/lib/restyutil"
	"github.com/sang765/tmr-novel-tracking/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var FetchFailed = fmt.Errorf("failed to fetch group page")
var ParseFailed = fmt.Errorf("failed to parse group page")

// DefaultGroupUrl is the showcase page of the translation group
// this tracker follows.
const DefaultGroupUrl = "https://ln.hako.vn/nhom-dich/3474-the-mavericks"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type Options struct {
	BaseUrl        string `json:"base_url"`
	MaxPages       int    `json:"max_pages"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type Client struct {
	BaseUrl  *url.URL
	Http     *resty.Client
	maxPages int
}

func NewClient(opts Options) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultGroupUrl
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = 2
	}
	if opts.TimeoutSeconds <= 0 {
		opts.TimeoutSeconds = 30
	}

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	// the site sits behind cloudflare
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", userAgent)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Duration(opts.TimeoutSeconds) * time.Second)

	telemetry.InstrumentResty(client, "tmr.lib.scrapers.hako.http")
	restyutil.InstrumentClient(client, restyInstrumentOutput)

	return &Client{
		BaseUrl:  baseUrl,
		Http:     client,
		maxPages: opts.MaxPages,
	}, nil
}

// FetchPage retrieves the raw html of one showcase page. Pagination
// works through the `page` query parameter.
func (c *Client) FetchPage(ctx context.Context, page int) (string, error) {
	ctx, span := tracer.Start(ctx, "client:FetchPage")
	defer span.End()
	span.SetAttributes(attribute.Int("page", page))

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParam("page", strconv.Itoa(page)).
		Get(c.BaseUrl.String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return "", fmt.Errorf("%w: page %d: %s", FetchFailed, page, err)
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		err := fmt.Errorf("%w: page %d: unexpected status %s", FetchFailed, page, res.Status())
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected status")
		return "", err
	}

	return res.String(), nil
}

// FetchAll walks pages 1..max_pages strictly in order, the first
// failed page aborts the whole fetch.
func (c *Client) FetchAll(ctx context.Context) ([]string, error) {
	ctx, span := tracer.Start(ctx, "client:FetchAll")
	defer span.End()

	pages := make([]string, 0, c.maxPages)
	for page := 1; page <= c.maxPages; page++ {
		html, err := c.FetchPage(ctx, page)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		pages = append(pages, html)
	}

	return pages, nil
}
