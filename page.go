package scrape2md

import (
	"context"
	"strings"
)

// Frame holds the rendered document of a single nested frame.
type Frame struct {
	URL  string
	HTML string
}

// RenderedPage is the output of the rendering collaborator for one URL:
// the main document plus the documents of any nested frames, in the
// order their host elements appear in the main document.
type RenderedPage struct {
	URL    string
	HTML   string
	Frames []Frame
}

// ExtractResult holds the primary content isolated from a rendered page.
// It is immutable once produced.
type ExtractResult struct {
	// Title is the page title, empty when no meaningful title was found.
	Title string

	// ContentHTML is the retained content region with boilerplate removed.
	// Empty when the page had no extractable content, which is a normal
	// result, not an error.
	ContentHTML string

	// Text is the plain text of ContentHTML with whitespace collapsed.
	Text string

	// Links are outbound links collected from the retained region only,
	// deduplicated within the page. Links from the main document are raw
	// as found; links spliced in from frames are absolute because only
	// the extractor knows the frame base URL.
	Links []string

	// Images are absolute image URLs from the retained region.
	Images []string
}

// Empty reports whether extraction found no usable content.
func (r *ExtractResult) Empty() bool {
	return strings.TrimSpace(r.ContentHTML) == ""
}

// Page is an accepted page ready to be persisted.
type Page struct {
	URL      string
	Filename string // unique filesystem-safe name, without extension
	Title    string
	Content  string // markdown
}

// Renderer retrieves rendered pages from URLs.
// Implementations use browser automation so that dynamically injected
// content and nested frame documents are materialized.
type Renderer interface {
	// Render navigates to the URL, waits for scripts to run, and returns
	// the rendered main document together with any nested frame documents.
	// The context controls timeout and cancellation. Frames that fail to
	// load or are cross-origin-opaque are omitted without error.
	Render(ctx context.Context, url string) (*RenderedPage, error)

	// Close releases browser resources.
	// Must be called when the Renderer is no longer needed.
	Close() error
}

// Extractor isolates the primary content of a rendered page, removing
// boilerplate and splicing in non-empty frame content.
type Extractor interface {
	// Extract is pure and deterministic: extracting the same RenderedPage
	// twice yields identical results.
	Extract(page *RenderedPage) (*ExtractResult, error)
}

// HTMLExtractor extracts the main content region from raw HTML.
// It serves as a fallback consulted when structural extraction
// retains nothing.
type HTMLExtractor interface {
	ExtractHTML(html string) (title, contentHTML string, err error)
}

// Converter converts clean HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown, preserving heading
	// hierarchy, lists, tables, and link targets. localImages maps remote
	// image URLs to local paths; images present in the map are referenced
	// by their local path, all others become plain links. A nil map is
	// allowed.
	Convert(html string, localImages map[string]string) (string, error)
}

// PageWriter persists accepted pages, one file per page, laid out as
// <outputDir>/<sanitized-domain>/<filename>.md.
type PageWriter interface {
	WritePage(ctx context.Context, page *Page) error
}

// SitemapService discovers URLs from website sitemaps.
// It checks robots.txt for Sitemap directives, falls back to
// /sitemap.xml, and resolves sitemap indexes recursively.
type SitemapService interface {
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}

// ResourceDownloader retrieves page resources (images) best-effort.
type ResourceDownloader interface {
	// DownloadAll fetches the given URLs and returns a map from source
	// URL to the local path where the resource was stored. Failures are
	// skipped: a URL absent from the result simply was not downloaded.
	DownloadAll(ctx context.Context, urls []string) map[string]string
}
