package scrape2md

import "context"

// PageTask is a discovered URL awaiting rendering.
type PageTask struct {
	URL   string // canonical URL
	Depth int    // link distance from the seed
}

// URLFrontier manages the crawl queue with deduplication.
// A URL enters the frontier at most once for the lifetime of a crawl.
type URLFrontier interface {
	// Push adds a URL to the frontier.
	// Returns false if the URL has already been seen.
	Push(url string, depth int) bool

	// Pop returns the next task in discovery order.
	// Returns false if the frontier is empty.
	Pop() (PageTask, bool)

	// Len returns the number of tasks in the queue.
	Len() int

	// Seen returns true if the URL has been queued or processed.
	Seen(url string) bool
}

// DomainLimiter provides per-domain politeness delays.
type DomainLimiter interface {
	// Wait blocks until a request to the domain is allowed.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
