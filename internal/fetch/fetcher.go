package fetch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"
	DefaultAcceptLanguage = "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7"
	DefaultTimeout        = 30 * time.Second

	acceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// Options configures a Fetcher. Zero values fall back to the defaults above.
type Options struct {
	UserAgent      string
	AcceptLanguage string
	Timeout        time.Duration
	// Politeness is optional; when set, every request waits on its per-host limiter.
	Politeness *Politeness
}

func (o Options) withDefaults() Options {
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.AcceptLanguage == "" {
		o.AcceptLanguage = DefaultAcceptLanguage
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Fetcher issues GET requests with a fixed identity and parses the body into
// a goquery document. It holds no per-request state; each Fetch is independent.
type Fetcher struct {
	collector      *colly.Collector
	acceptLanguage string
	politeness     *Politeness
}

// New builds a Fetcher on top of a colly collector.
func New(opts Options) *Fetcher {
	opts = opts.withDefaults()

	c := colly.NewCollector(
		colly.UserAgent(opts.UserAgent),
		colly.AllowURLRevisit(),
		// status handling is ours, see Fetch
		colly.ParseHTTPErrorResponse(),
	)
	c.SetRequestTimeout(opts.Timeout)

	return &Fetcher{
		collector:      c,
		acceptLanguage: opts.AcceptLanguage,
		politeness:     opts.Politeness,
	}
}

// Fetch downloads target and returns its document tree. Failures are either
// *TransportError or *HTTPStatusError; no retries are attempted.
func (f *Fetcher) Fetch(ctx context.Context, target string) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, &TransportError{URL: target, Err: err}
	}
	if f.politeness != nil {
		if err := f.politeness.Wait(ctx, target); err != nil {
			return nil, &TransportError{URL: target, Err: err}
		}
	}

	// A clone shares the HTTP backend but gets its own callbacks, so the
	// captured response below belongs to this call only.
	c := f.collector.Clone()

	var (
		status int
		body   []byte
	)
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", acceptHTML)
		r.Headers.Set("Accept-Language", f.acceptLanguage)
	})
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})

	if err := c.Visit(target); err != nil {
		return nil, &TransportError{URL: target, Err: err}
	}
	c.Wait()

	if status < 200 || status > 299 {
		return nil, &HTTPStatusError{URL: target, StatusCode: status, Status: http.StatusText(status)}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML from %s: %w", target, err)
	}
	return doc, nil
}
