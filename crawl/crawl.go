// Package crawl provides breadth-first crawl orchestration: frontier
// management, page rendering, content extraction, duplicate detection,
// and persistence of accepted pages.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/taralika/scrape2md"
	"github.com/taralika/scrape2md/dedupe"
)

// Crawl configuration defaults.
const (
	DefaultMaxPages      = 100
	DefaultDelay         = time.Second
	DefaultRenderTimeout = 30 * time.Second
)

// maxConsecutiveFailures is the number of back-to-back render failures
// after which the rendering collaborator is considered unavailable and
// the crawl aborts.
const maxConsecutiveFailures = 5

// Crawler orchestrates a breadth-first crawl of a single site.
// Pages are rendered, extracted, and persisted one at a time; the
// sequential loop keeps duplicate detection and discovery order free of
// races by construction.
type Crawler struct {
	Renderer  scrape2md.Renderer
	Extractor scrape2md.Extractor
	Converter scrape2md.Converter
	Pages     scrape2md.PageWriter

	// Detector judges near-duplicate content. A nil Detector gets the
	// default similarity threshold.
	Detector *dedupe.Detector

	// Limiter spaces renders per domain. Optional.
	Limiter scrape2md.DomainLimiter

	// Sitemaps, when set, pre-seeds the frontier from the site's sitemap.
	Sitemaps scrape2md.SitemapService

	// Resources, when set, downloads images referenced by accepted pages.
	Resources scrape2md.ResourceDownloader

	// MaxPages bounds the number of accepted pages. Defaults to
	// DefaultMaxPages when non-positive.
	MaxPages int

	// RenderTimeout bounds each render call. Defaults to
	// DefaultRenderTimeout when non-positive.
	RenderTimeout time.Duration

	// AllowCrossOrigin permits following links to other origins.
	// The zero value restricts the crawl to the seed origin.
	AllowCrossOrigin bool

	Logger *slog.Logger
}

// Result summarizes a completed crawl.
type Result struct {
	// Pages holds the accepted pages in discovery order.
	Pages []*scrape2md.Page

	Rendered   int // pages successfully rendered
	Duplicates int // pages dropped as duplicates of accepted content
	Empty      int // pages with no extractable content
	Failed     int // page-level render/extraction/conversion failures
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type      ProgressType
	Completed int // accepted pages so far
	Total     int // page limit
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

// Progress event types.
const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressDuplicate
	ProgressEmpty
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Run crawls the link graph rooted at seedURL breadth-first and returns
// the accepted pages in discovery order.
//
// A single page's failure never aborts the crawl; render timeouts,
// network errors, duplicate content, and empty content are page-level
// outcomes. The crawl aborts with EUNAVAILABLE when the renderer fails
// repeatedly or when an accepted page cannot be persisted. Pages already
// persisted are retained on abort. Canceling the context stops the crawl
// after the page in flight has been persisted, and is not an error.
func (c *Crawler) Run(ctx context.Context, seedURL string, progress ProgressFunc) (*Result, error) {
	seed, ok := scrape2md.Normalize(seedURL, nil)
	if !ok {
		return nil, scrape2md.Errorf(scrape2md.EINVALID, "invalid seed URL %q", seedURL)
	}

	maxPages := c.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	timeout := c.RenderTimeout
	if timeout <= 0 {
		timeout = DefaultRenderTimeout
	}
	detector := c.Detector
	if detector == nil {
		detector = dedupe.NewDetector(dedupe.DefaultThreshold)
	}

	frontier := NewFrontier()
	frontier.Push(seed, 0)
	c.seedFromSitemap(ctx, frontier, seed)

	alloc := scrape2md.NewFilenameAllocator()
	result := &Result{}
	consecutiveFailures := 0

	notify(progress, ProgressEvent{Type: ProgressStarted, Total: maxPages})

	for frontier.Len() > 0 && len(result.Pages) < maxPages {
		// An external stop completes the page in flight, then lands here.
		if ctx.Err() != nil {
			break
		}

		task, _ := frontier.Pop()

		taskURL, err := url.Parse(task.URL)
		if err != nil {
			result.Failed++
			continue
		}
		if c.Limiter != nil {
			if err := c.Limiter.Wait(ctx, taskURL.Host); err != nil {
				break // context canceled during politeness wait
			}
		}

		rctx, cancel := context.WithTimeout(ctx, timeout)
		rendered, err := c.Renderer.Render(rctx, task.URL)
		cancel()
		if err != nil {
			// A render cut short by an external stop is not a page failure.
			if ctx.Err() != nil {
				break
			}
			result.Failed++
			consecutiveFailures++
			c.logger().Warn("render failed", "url", task.URL, "err", err)
			notify(progress, ProgressEvent{Type: ProgressFailed, Completed: len(result.Pages), Total: maxPages, URL: task.URL, Error: err})
			if consecutiveFailures >= maxConsecutiveFailures {
				return result, scrape2md.Errorf(scrape2md.EUNAVAILABLE,
					"renderer failed %d times in a row, last error: %v", consecutiveFailures, err)
			}
			continue
		}
		consecutiveFailures = 0
		result.Rendered++

		extracted, err := c.Extractor.Extract(rendered)
		if err != nil {
			result.Failed++
			c.logger().Warn("extraction failed", "url", task.URL, "err", err)
			notify(progress, ProgressEvent{Type: ProgressFailed, Completed: len(result.Pages), Total: maxPages, URL: task.URL, Error: err})
			continue
		}

		// Links feed the frontier whether or not the page itself is kept.
		c.enqueueLinks(frontier, extracted.Links, taskURL, seed, task.Depth)

		if extracted.Empty() {
			result.Empty++
			c.logger().Debug("no extractable content", "url", task.URL)
			notify(progress, ProgressEvent{Type: ProgressEmpty, Completed: len(result.Pages), Total: maxPages, URL: task.URL})
			continue
		}

		var localImages map[string]string
		if c.Resources != nil && len(extracted.Images) > 0 {
			localImages = c.Resources.DownloadAll(ctx, extracted.Images)
		}

		markdown, err := c.Converter.Convert(extracted.ContentHTML, localImages)
		if err != nil {
			result.Failed++
			c.logger().Warn("conversion failed", "url", task.URL, "err", err)
			notify(progress, ProgressEvent{Type: ProgressFailed, Completed: len(result.Pages), Total: maxPages, URL: task.URL, Error: err})
			continue
		}

		fp := dedupe.NewFingerprint(markdown)
		if detector.IsDuplicate(fp) {
			result.Duplicates++
			c.logger().Debug("duplicate content", "url", task.URL)
			notify(progress, ProgressEvent{Type: ProgressDuplicate, Completed: len(result.Pages), Total: maxPages, URL: task.URL})
			continue
		}

		title := extracted.Title
		if task.Depth == 0 && scrape2md.SanitizeFilename(title) == "" {
			title = "Home"
		}

		page := &scrape2md.Page{
			URL:      task.URL,
			Filename: alloc.Allocate(title, task.URL),
			Title:    extracted.Title,
			Content:  markdown,
		}
		if err := c.Pages.WritePage(ctx, page); err != nil {
			// A write refused because of an external stop ends the crawl
			// gracefully; only genuine write failures abort it.
			if ctx.Err() != nil {
				break
			}
			return result, scrape2md.Errorf(scrape2md.EUNAVAILABLE, "writing %s: %v", page.Filename, err)
		}

		// First-seen wins: register only after successful persistence.
		detector.Accept(fp)
		result.Pages = append(result.Pages, page)
		notify(progress, ProgressEvent{Type: ProgressCompleted, Completed: len(result.Pages), Total: maxPages, URL: task.URL})
	}

	notify(progress, ProgressEvent{Type: ProgressFinished, Completed: len(result.Pages), Total: maxPages})
	return result, nil
}

// enqueueLinks canonicalizes discovered links and pushes acceptable ones
// onto the frontier. The visited check inside Push makes cyclic link
// graphs safe: no URL enters the frontier twice.
func (c *Crawler) enqueueLinks(frontier *Frontier, links []string, base *url.URL, seed string, depth int) {
	for _, raw := range links {
		canonical, ok := scrape2md.Normalize(raw, base)
		if !ok {
			continue
		}
		if !c.AllowCrossOrigin && !scrape2md.SameOrigin(canonical, seed) {
			continue
		}
		frontier.Push(canonical, depth+1)
	}
}

// seedFromSitemap pre-seeds the frontier with sitemap URLs when a
// SitemapService is configured. Discovery failure is non-fatal: the
// crawl proceeds from the seed alone.
func (c *Crawler) seedFromSitemap(ctx context.Context, frontier *Frontier, seed string) {
	if c.Sitemaps == nil {
		return
	}
	urls, err := c.Sitemaps.DiscoverURLs(ctx, seed)
	if err != nil {
		c.logger().Warn("sitemap discovery failed", "url", seed, "err", err)
		return
	}
	for _, raw := range urls {
		canonical, ok := scrape2md.Normalize(raw, nil)
		if !ok {
			continue
		}
		if !c.AllowCrossOrigin && !scrape2md.SameOrigin(canonical, seed) {
			continue
		}
		frontier.Push(canonical, 1)
	}
	if len(urls) > 0 {
		c.logger().Info("sitemap pre-seeded frontier", "urls", len(urls))
	}
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func notify(progress ProgressFunc, event ProgressEvent) {
	if progress != nil {
		progress(event)
	}
}

// TruncateURL shortens a URL for display, keeping the more informative
// trailing portion.
func TruncateURL(rawURL string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if len(rawURL) <= maxLen {
		return rawURL
	}
	if maxLen < 4 {
		return rawURL[:maxLen]
	}
	return "..." + rawURL[len(rawURL)-maxLen+3:]
}

// FormatBytes formats a byte count in human-readable form.
func FormatBytes(bytes int) string {
	const (
		kb = 1024
		mb = kb * 1024
	)
	switch {
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(mb))
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
