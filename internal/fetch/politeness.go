package fetch

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"
)

// Politeness keeps per-host courtesy state: an optional request-rate ceiling
// and a cache of robots.txt groups.
type Politeness struct {
	mu          sync.Mutex
	rps         float64
	userAgent   string
	client      *http.Client
	limiters    map[string]*rate.Limiter
	robotsCache map[string]*robotstxt.Group
}

// NewPoliteness creates the host manager. rps <= 0 disables rate limiting;
// robots.txt checks stay available either way.
func NewPoliteness(rps float64, userAgent string) *Politeness {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Politeness{
		rps:         rps,
		userAgent:   userAgent,
		client:      &http.Client{Timeout: 10 * time.Second},
		limiters:    make(map[string]*rate.Limiter),
		robotsCache: make(map[string]*robotstxt.Group),
	}
}

// Wait blocks until the host of target may receive another request.
func (p *Politeness) Wait(ctx context.Context, target string) error {
	if p.rps <= 0 {
		return nil
	}
	u, err := url.Parse(target)
	if err != nil {
		return err
	}

	p.mu.Lock()
	limiter, ok := p.limiters[u.Host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(p.rps), 1)
		p.limiters[u.Host] = limiter
	}
	p.mu.Unlock()

	return limiter.Wait(ctx)
}

// Allowed reports whether robots.txt of the target's host permits fetching
// target. A missing or unreadable robots.txt allows everything.
func (p *Politeness) Allowed(ctx context.Context, target string) bool {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return false
	}

	group, err := p.group(ctx, u)
	if err != nil || group == nil {
		return true
	}
	return group.Test(u.RequestURI())
}

func (p *Politeness) group(ctx context.Context, u *url.URL) (*robotstxt.Group, error) {
	p.mu.Lock()
	group, ok := p.robotsCache[u.Host]
	p.mu.Unlock()
	if ok {
		return group, nil
	}

	// an unreachable robots.txt is cached as a nil group (allow all)
	group, err := p.fetchGroup(ctx, u)
	if err != nil && ctx.Err() != nil {
		return nil, err
	}

	p.mu.Lock()
	p.robotsCache[u.Host] = group
	p.mu.Unlock()
	return group, nil
}

func (p *Politeness) fetchGroup(ctx context.Context, u *url.URL) (*robotstxt.Group, error) {
	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, err
	}
	return data.FindGroup(p.userAgent), nil
}
