package crawl

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/taralika/scrape2md"
)

// Compile-time interface verification.
var _ scrape2md.URLFrontier = (*Frontier)(nil)

// Frontier sizing for the Bloom-filter seen set.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.01
)

// Frontier is an in-memory FIFO frontier with Bloom filter deduplication.
// Strict FIFO order preserves the breadth-first guarantee: pages closer
// to the seed are rendered before deeper pages when the page limit
// truncates a crawl. It is safe for concurrent use.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.BloomFilter
	queue []scrape2md.PageTask
}

// NewFrontier creates a Frontier sized for the expected URL volume.
func NewFrontier() *Frontier {
	return &Frontier{
		seen: bloom.NewWithEstimates(frontierExpectedURLs, frontierFalsePositiveRate),
	}
}

// Push adds a URL to the frontier.
// Returns false if the URL has already been seen. URLs are expected to
// be canonical already; identical strings are deduplicated.
func (f *Frontier) Push(url string, depth int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seen.TestString(url) {
		return false
	}
	f.seen.AddString(url)
	f.queue = append(f.queue, scrape2md.PageTask{URL: url, Depth: depth})
	return true
}

// Pop returns the next task in discovery order.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (scrape2md.PageTask, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return scrape2md.PageTask{}, false
	}
	task := f.queue[0]
	f.queue = f.queue[1:]
	return task, true
}

// Len returns the number of tasks in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has been queued or processed.
func (f *Frontier) Seen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.TestString(url)
}
