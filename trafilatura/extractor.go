// Package trafilatura wraps go-trafilatura as the fallback content
// extractor for pages the structural pass cannot handle.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/taralika/scrape2md"
	"golang.org/x/net/html"
)

// Ensure Extractor implements scrape2md.HTMLExtractor at compile time.
var _ scrape2md.HTMLExtractor = (*Extractor)(nil)

// Extractor extracts main content from raw HTML using go-trafilatura.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractHTML processes raw HTML and returns the page title and the main
// content region as HTML.
func (e *Extractor) ExtractHTML(rawHTML string) (string, string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", "", scrape2md.Errorf(scrape2md.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return "", "", err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return "", "", err
		}
	}

	return result.Metadata.Title, contentHTML, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
