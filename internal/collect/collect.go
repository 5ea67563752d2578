// Package collect runs the per-site pipelines and merges their results.
package collect

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Beigelman/house-crawler/internal/config"
	"github.com/Beigelman/house-crawler/internal/fetch"
	"github.com/Beigelman/house-crawler/internal/models"
	"github.com/Beigelman/house-crawler/internal/parser"
	"github.com/Beigelman/house-crawler/internal/pipeline"
)

// Target pairs a site with the listing page to start from.
type Target struct {
	Site    parser.Site
	ListURL string
}

// Targets returns DF Imóveis then Wimoveis. Listing URLs are built from the
// search file when one is configured.
func Targets(cfg *config.Config) []Target {
	df, wi := parser.NewDFImoveis(), parser.NewWimoveis()
	if cfg.Search != nil {
		return []Target{
			{Site: df, ListURL: df.ListURL(*cfg.Search)},
			{Site: wi, ListURL: wi.ListURL(*cfg.Search)},
		}
	}
	return []Target{
		{Site: df, ListURL: cfg.DFImoveisListURL},
		{Site: wi, ListURL: cfg.WimoveisListURL},
	}
}

// NewFetcher builds the page fetcher from cfg. Politeness is returned when
// a host rate or robots.txt checking is enabled, nil otherwise.
func NewFetcher(cfg *config.Config) (*fetch.Fetcher, *fetch.Politeness) {
	var p *fetch.Politeness
	if cfg.HostRPS > 0 || cfg.RespectRobots {
		p = fetch.NewPoliteness(cfg.HostRPS, cfg.UserAgent)
	}
	f := fetch.New(fetch.Options{
		UserAgent:      cfg.UserAgent,
		AcceptLanguage: cfg.AcceptLanguage,
		Timeout:        cfg.RequestTimeout,
		Politeness:     p,
	})
	return f, p
}

// NewRunner builds a pipeline runner from cfg.
func NewRunner(cfg *config.Config, log logrus.FieldLogger) *pipeline.Runner {
	f, p := NewFetcher(cfg)
	opts := []pipeline.Option{pipeline.WithDelay(cfg.ItemDelay)}
	if p != nil && cfg.RespectRobots {
		opts = append(opts, pipeline.WithAllow(p.Allowed))
	}
	return pipeline.New(f, log, opts...)
}

// SiteRunner runs one site's pipeline.
type SiteRunner interface {
	Run(ctx context.Context, site parser.Site, listURL string) []models.Property
}

// Result is the merged output of a collection.
type Result struct {
	Properties []models.Property
	PerSite    map[string]int
}

// Collector runs every target concurrently. Each site keeps its own
// sequential pipeline and courtesy delay.
type Collector struct {
	runner  SiteRunner
	targets []Target
	log     logrus.FieldLogger
}

// NewCollector creates a Collector over targets.
func NewCollector(runner SiteRunner, targets []Target, log logrus.FieldLogger) *Collector {
	return &Collector{runner: runner, targets: targets, log: log}
}

// Collect returns the records of all targets, concatenated in target order.
func (c *Collector) Collect(ctx context.Context) (*Result, error) {
	perTarget := make([][]models.Property, len(c.targets))

	g, gctx := errgroup.WithContext(ctx)
	for i, t := range c.targets {
		i, t := i, t
		g.Go(func() error {
			perTarget[i] = c.runner.Run(gctx, t.Site, t.ListURL)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Properties: []models.Property{}, PerSite: make(map[string]int, len(c.targets))}
	for i, t := range c.targets {
		res.Properties = append(res.Properties, perTarget[i]...)
		res.PerSite[t.Site.Name()] += len(perTarget[i])
	}

	fields := logrus.Fields{"total": len(res.Properties)}
	for name, n := range res.PerSite {
		fields[name] = n
	}
	c.log.WithFields(fields).Info("Collection finished")
	return res, ctx.Err()
}
