// Package htmltomarkdown converts extracted content HTML to Markdown.
package htmltomarkdown

import (
	"html"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/taralika/scrape2md"
)

// Ensure Converter implements scrape2md.Converter at compile time.
var _ scrape2md.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown. Images whose source URL
// appears in localImages are rewritten to the local path; all other
// images become plain links so the markdown never references remote
// files that were not downloaded.
func (c *Converter) Convert(contentHTML string, localImages map[string]string) (string, error) {
	if strings.TrimSpace(contentHTML) == "" {
		return "", scrape2md.Errorf(scrape2md.EINVALID, "empty HTML input")
	}

	contentHTML, err := rewriteImages(contentHTML, localImages)
	if err != nil {
		return "", err
	}

	result, err := c.conv.ConvertString(contentHTML)
	if err != nil {
		return "", err
	}

	return result, nil
}

// rewriteImages maps downloaded images to their local paths and turns
// the rest into anchors. Rewriting happens on the DOM so the markdown
// converter sees ordinary elements and needs no custom rules.
func rewriteImages(contentHTML string, localImages map[string]string) (string, error) {
	if !strings.Contains(contentHTML, "<img") {
		return contentHTML, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contentHTML))
	if err != nil {
		return "", scrape2md.Errorf(scrape2md.EINVALID, "parsing content HTML: %v", err)
	}

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := strings.TrimSpace(img.AttrOr("src", ""))
		if src == "" {
			img.Remove()
			return
		}
		if local, ok := localImages[src]; ok {
			img.SetAttr("src", local)
			return
		}
		label := strings.TrimSpace(img.AttrOr("alt", ""))
		if label == "" {
			label = "image"
		}
		img.ReplaceWithHtml(`<a href="` + html.EscapeString(src) + `">` + html.EscapeString(label) + `</a>`)
	})

	body := doc.Find("body").First()
	if body.Length() == 0 {
		return contentHTML, nil
	}
	return body.Html()
}
