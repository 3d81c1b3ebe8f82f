// Package fetcher issues every HTTP request of a crawl through one shared
// politeness gate: consecutive request starts are spaced a minimum interval
// apart regardless of which goroutine asks and whether the request succeeds.
package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

const (
	DefaultInterval  = 500 * time.Millisecond
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Config carries the knobs every request shares.
type Config struct {
	UserAgent        string
	Interval         time.Duration // minimum start-to-start spacing
	Timeout          time.Duration // per request deadline
	CloudflareBypass bool          // wrap the transport with browser-like headers
}

// Page is one fetched response body plus what is needed to interpret it.
type Page struct {
	URL         string
	Status      int
	Body        []byte
	ContentType string
}

// Fetcher is the process-wide HTTP entry point. Pages and assets go through
// the same instance so the gate sees every request.
type Fetcher struct {
	client  *resty.Client
	timeout time.Duration
	log     *slog.Logger
	gate    *gate
}

type Option func(*Fetcher)

func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) { f.log = l }
}

func New(cfg Config, opts ...Option) *Fetcher {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	rt := http.RoundTripper(&http.Transport{
		DialContext: (&net.Dialer{
			Timeout: 10 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
	})
	if cfg.CloudflareBypass {
		rt = cloudflarebp.AddCloudFlareByPass(rt)
	}

	client := resty.New()
	client.SetTransport(rt)
	client.SetLogger(disableLogger{})
	client.SetHeader("Accept-Charset", "utf-8")
	client.SetHeader("User-Agent", cfg.UserAgent)

	f := &Fetcher{
		client:  client,
		timeout: cfg.Timeout,
		log:     slog.Default(),
		gate:    newGate(cfg.Interval),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch performs one rate-limited GET. The gate slot is consumed before the
// request goes out and is never refunded, so a failed call holds its spacing
// like a successful one. No retries happen here; retry policy belongs to the
// caller.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	if err := f.gate.wait(ctx); err != nil {
		return nil, classify(url, err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	f.log.Debug("fetching", "url", url)
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, classify(url, err)
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() > 299 {
		return nil, &Error{Kind: KindHTTPStatus, URL: url, Status: resp.StatusCode()}
	}
	return &Page{
		URL:         url,
		Status:      resp.StatusCode(),
		Body:        resp.Body(),
		ContentType: resp.Header().Get("Content-Type"),
	}, nil
}

// Document fetches url and parses the response as HTML, decoding legacy
// charsets declared in the Content-Type header first.
func (f *Fetcher) Document(ctx context.Context, url string) (*goquery.Document, error) {
	page, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	body, err := page.DecodedBody()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", url, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", url, err)
	}
	return doc, nil
}

// DecodedBody returns Body converted to UTF-8 according to the charset
// parameter of the Content-Type header. Bodies without a declared charset
// are assumed to be UTF-8 already.
func (p *Page) DecodedBody() ([]byte, error) {
	_, params, err := mime.ParseMediaType(p.ContentType)
	if err != nil {
		return p.Body, nil
	}
	name := strings.ToLower(params["charset"])
	if name == "" || name == "utf-8" || name == "utf8" {
		return p.Body, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", name, err)
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), p.Body)
	if err != nil {
		return nil, fmt.Errorf("charset %q decode: %w", name, err)
	}
	return out, nil
}

func classify(url string, err error) *Error {
	var nerr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindTimeout, URL: url, Err: err}
	case errors.As(err, &nerr) && nerr.Timeout():
		return &Error{Kind: KindTimeout, URL: url, Err: err}
	}
	return &Error{Kind: KindTransport, URL: url, Err: err}
}

type disableLogger struct{}

func (disableLogger) Errorf(string, ...interface{}) {}
func (disableLogger) Warnf(string, ...interface{})  {}
func (disableLogger) Debugf(string, ...interface{}) {}
