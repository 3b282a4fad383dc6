package mock

import "github.com/taralika/scrape2md"

var _ scrape2md.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of scrape2md.Extractor.
type Extractor struct {
	ExtractFn func(page *scrape2md.RenderedPage) (*scrape2md.ExtractResult, error)
}

func (e *Extractor) Extract(page *scrape2md.RenderedPage) (*scrape2md.ExtractResult, error) {
	return e.ExtractFn(page)
}

var _ scrape2md.HTMLExtractor = (*HTMLExtractor)(nil)

// HTMLExtractor is a mock implementation of scrape2md.HTMLExtractor.
type HTMLExtractor struct {
	ExtractHTMLFn func(html string) (string, string, error)
}

func (e *HTMLExtractor) ExtractHTML(html string) (string, string, error) {
	return e.ExtractHTMLFn(html)
}
