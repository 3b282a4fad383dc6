package mock

import (
	"context"

	"github.com/taralika/scrape2md"
)

var _ scrape2md.PageWriter = (*PageWriter)(nil)

// PageWriter is a mock implementation of scrape2md.PageWriter.
type PageWriter struct {
	WritePageFn func(ctx context.Context, page *scrape2md.Page) error
}

func (w *PageWriter) WritePage(ctx context.Context, page *scrape2md.Page) error {
	return w.WritePageFn(ctx, page)
}
