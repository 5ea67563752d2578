// Package pipeline runs one site's listing -> detail extraction sequentially.
package pipeline

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/Beigelman/house-crawler/internal/models"
	"github.com/Beigelman/house-crawler/internal/parser"
)

// DefaultDelay is the courtesy pause after every attempted detail page.
const DefaultDelay = 1200 * time.Millisecond

// Fetcher downloads a page and returns its document tree.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// PauseFunc blocks for d or until ctx is done.
type PauseFunc func(ctx context.Context, d time.Duration)

// Sleep is the default PauseFunc.
func Sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// AllowFunc decides whether a collected link may be fetched.
type AllowFunc func(ctx context.Context, url string) bool

// Option customizes a Runner.
type Option func(*Runner)

// WithPause replaces the pause implementation.
func WithPause(p PauseFunc) Option { return func(r *Runner) { r.pause = p } }

// WithDelay sets the courtesy delay.
func WithDelay(d time.Duration) Option { return func(r *Runner) { r.delay = d } }

// WithAllow filters collected links before they are fetched, e.g. by robots.txt.
func WithAllow(a AllowFunc) Option { return func(r *Runner) { r.allow = a } }

// Runner sequences fetch and extraction for one site. It keeps no state
// between runs, so one Runner may serve several sites concurrently.
type Runner struct {
	fetcher Fetcher
	pause   PauseFunc
	delay   time.Duration
	allow   AllowFunc
	log     logrus.FieldLogger
}

// New creates a Runner with the default delay and pause.
func New(f Fetcher, log logrus.FieldLogger, opts ...Option) *Runner {
	r := &Runner{
		fetcher: f,
		pause:   Sleep,
		delay:   DefaultDelay,
		log:     log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CollectLinks fetches the listing page and returns its detail addresses.
func (r *Runner) CollectLinks(ctx context.Context, site parser.Site, listURL string) ([]string, error) {
	doc, err := r.fetcher.Fetch(ctx, listURL)
	if err != nil {
		return nil, fmt.Errorf("error visiting listing page: %w", err)
	}
	return site.CollectLinks(doc), nil
}

// Run collects the links of listURL and extracts one record per link.
// Failures of single items are logged and skipped; a failing or empty
// listing page yields an empty result.
func (r *Runner) Run(ctx context.Context, site parser.Site, listURL string) []models.Property {
	log := r.log.WithField("site", site.Name())
	results := []models.Property{}

	links, err := r.CollectLinks(ctx, site, listURL)
	if err != nil {
		log.WithError(err).Warn("Could not read listing page")
		return results
	}
	if len(links) == 0 {
		log.WithField("url", listURL).Warn("No property links found on listing page")
		return results
	}
	log.Infof("Found %d property links", len(links))

	for i, link := range links {
		if ctx.Err() != nil {
			log.WithError(ctx.Err()).Warn("Run interrupted")
			break
		}

		itemLog := log.WithFields(logrus.Fields{"index": i + 1, "url": link})
		if r.allow != nil && !r.allow(ctx, link) {
			itemLog.Warn("Skipping link disallowed by robots.txt")
		} else if record, err := r.scrape(ctx, site, link); err != nil {
			itemLog.WithError(err).Warn("Error processing property")
		} else {
			results = append(results, record)
			itemLog.WithFields(logrus.Fields{
				"titulo": record.TitleText(),
				"valor":  record.Price,
			}).Info("Property collected")
		}

		r.pause(ctx, r.delay)
	}

	log.Infof("Collected %d of %d properties", len(results), len(links))
	return results
}

// scrape fetches one detail page and extracts its record. A panic during
// extraction is turned into an error so the run continues.
func (r *Runner) scrape(ctx context.Context, site parser.Site, link string) (record models.Property, err error) {
	doc, err := r.fetcher.Fetch(ctx, link)
	if err != nil {
		return record, err
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("extraction panic: %v\n%s", rec, debug.Stack())
		}
	}()
	return site.ExtractRecord(doc, link), nil
}
