package mock

import (
	"context"

	"github.com/taralika/scrape2md"
)

var _ scrape2md.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of scrape2md.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, url string) (*scrape2md.RenderedPage, error)
	CloseFn  func() error
}

func (r *Renderer) Render(ctx context.Context, url string) (*scrape2md.RenderedPage, error) {
	return r.RenderFn(ctx, url)
}

func (r *Renderer) Close() error {
	if r.CloseFn == nil {
		return nil
	}
	return r.CloseFn()
}
