// Package validate re-checks stored listings and drops the ones that are gone.
package validate

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Beigelman/house-crawler/internal/parser"
	"github.com/Beigelman/house-crawler/internal/pipeline"
	"github.com/Beigelman/house-crawler/internal/storage"
)

// DefaultDelay is the pause between two checks.
const DefaultDelay = 1500 * time.Millisecond

// Report summarizes a validation pass.
type Report struct {
	Checked int
	Valid   int
	Removed int64
	Invalid []string
}

// Validator re-fetches stored links one at a time.
type Validator struct {
	fetcher pipeline.Fetcher
	sites   []parser.Site
	pause   pipeline.PauseFunc
	delay   time.Duration
	log     logrus.FieldLogger
}

// New creates a Validator for the given sites.
func New(f pipeline.Fetcher, sites []parser.Site, log logrus.FieldLogger) *Validator {
	return &Validator{
		fetcher: f,
		sites:   sites,
		pause:   pipeline.Sleep,
		delay:   DefaultDelay,
		log:     log,
	}
}

// WithPause replaces the pause between checks.
func (v *Validator) WithPause(p pipeline.PauseFunc) *Validator {
	v.pause = p
	return v
}

// IsValid fetches link again and reports whether it still describes a listing:
// the owning site must be known, the page must load, and the site's title or
// price element must be filled in.
func (v *Validator) IsValid(ctx context.Context, link string) bool {
	site := parser.SiteFor(v.sites, link)
	if site == nil {
		v.log.WithField("url", link).Warn("No site matches link")
		return false
	}

	doc, err := v.fetcher.Fetch(ctx, link)
	if err != nil {
		v.log.WithFields(logrus.Fields{"url": link, "error": err}).Info("Listing no longer reachable")
		return false
	}

	return site.HasListing(doc)
}

// Run checks every stored property and deletes the invalid ones.
func (v *Validator) Run(ctx context.Context, store storage.Store) (*Report, error) {
	props, err := store.All(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for i, p := range props {
		if ctx.Err() != nil {
			break
		}
		if i > 0 {
			v.pause(ctx, v.delay)
		}

		report.Checked++
		if v.IsValid(ctx, p.Link) {
			report.Valid++
		} else {
			report.Invalid = append(report.Invalid, p.Link)
		}
	}

	if len(report.Invalid) > 0 {
		removed, err := store.DeleteByLinks(ctx, report.Invalid)
		if err != nil {
			return report, err
		}
		report.Removed = removed
	}

	v.log.WithFields(logrus.Fields{
		"checked": report.Checked,
		"valid":   report.Valid,
		"removed": report.Removed,
	}).Info("Validation finished")
	return report, nil
}
