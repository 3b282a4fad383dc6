// Package rod renders pages with headless Chrome so that script-injected
// content and nested frame documents are materialized before extraction.
package rod

import (
	"context"

	"github.com/go-rod/rod/lib/proto"
	"github.com/taralika/scrape2md"
)

// Ensure Renderer implements scrape2md.Renderer at compile time.
var _ scrape2md.Renderer = (*Renderer)(nil)

// Renderer retrieves rendered pages using Chrome browser automation.
// Renderer is safe for concurrent use by multiple goroutines.
type Renderer struct {
	manager *BrowserManager
	closed  bool
}

// NewRenderer creates a Renderer backed by a fresh headless browser.
// Close must be called when the Renderer is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewRenderer(opts ...ManagerOption) (*Renderer, error) {
	manager, err := NewBrowserManager(opts...)
	if err != nil {
		return nil, err
	}
	return &Renderer{manager: manager}, nil
}

// Render navigates to the URL, waits for the load event, and returns the
// rendered main document plus the documents of any nested frames. Frames
// that cannot be read, usually because they are cross-origin-opaque or
// detached, are skipped without error.
func (r *Renderer) Render(ctx context.Context, url string) (*scrape2md.RenderedPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.closed {
		return nil, scrape2md.Errorf(scrape2md.EINVALID, "renderer is closed")
	}

	page, err := r.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		return nil, err
	}

	html, err := page.HTML()
	if err != nil {
		return nil, err
	}

	rendered := &scrape2md.RenderedPage{
		URL:  url,
		HTML: html,
	}

	// Frames are collected in document order so the extractor can match
	// them to their host elements by position.
	elements, err := page.Elements("iframe, frame")
	if err == nil {
		for _, el := range elements {
			framePage, err := el.Frame()
			if err != nil {
				rendered.Frames = append(rendered.Frames, scrape2md.Frame{})
				continue
			}
			frameHTML, err := framePage.HTML()
			if err != nil {
				rendered.Frames = append(rendered.Frames, scrape2md.Frame{})
				continue
			}
			frameURL := ""
			if info, err := framePage.Info(); err == nil {
				frameURL = info.URL
			}
			rendered.Frames = append(rendered.Frames, scrape2md.Frame{
				URL:  frameURL,
				HTML: frameHTML,
			})
		}
	}

	r.manager.PageRendered()
	return rendered, nil
}

// Close releases browser resources. Safe to call multiple times.
func (r *Renderer) Close() error {
	r.closed = true
	return r.manager.Close()
}
