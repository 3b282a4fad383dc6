package mock

import "github.com/taralika/scrape2md"

var _ scrape2md.Converter = (*Converter)(nil)

// Converter is a mock implementation of scrape2md.Converter.
type Converter struct {
	ConvertFn func(html string, localImages map[string]string) (string, error)
}

func (c *Converter) Convert(html string, localImages map[string]string) (string, error) {
	return c.ConvertFn(html, localImages)
}
