package crawl

import (
	"context"
	"sync"
	"time"

	"github.com/taralika/scrape2md"
	"golang.org/x/time/rate"
)

var _ scrape2md.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces requests to each domain by a fixed politeness
// delay using per-domain token buckets. Waits are context-aware, so a
// canceled crawl never sleeps out its delay.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiter creates a limiter that allows at most one request per
// delay to each domain. The first request to a domain proceeds
// immediately. A non-positive delay disables waiting.
func NewDomainLimiter(delay time.Duration) *DomainLimiter {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// Wait blocks until the delay allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(d.limit, 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
