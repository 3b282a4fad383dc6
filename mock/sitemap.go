package mock

import (
	"context"

	"github.com/taralika/scrape2md"
)

var _ scrape2md.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of scrape2md.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL)
}
