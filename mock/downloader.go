package mock

import (
	"context"

	"github.com/taralika/scrape2md"
)

var _ scrape2md.ResourceDownloader = (*ResourceDownloader)(nil)

// ResourceDownloader is a mock implementation of scrape2md.ResourceDownloader.
type ResourceDownloader struct {
	DownloadAllFn func(ctx context.Context, urls []string) map[string]string
}

func (d *ResourceDownloader) DownloadAll(ctx context.Context, urls []string) map[string]string {
	return d.DownloadAllFn(ctx, urls)
}
