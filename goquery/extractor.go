// Package goquery implements structural content extraction on top of the
// rendered page DOM. It strips boilerplate regions scored by a chain of
// classifiers, splices rendered iframe content into the host document,
// and narrows the result to the primary content region.
package goquery

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/taralika/scrape2md"
)

var _ scrape2md.Extractor = (*Extractor)(nil)

const (
	// minContentTextLen is the minimum rune count of retained text for a
	// page to count as having real content.
	minContentTextLen = 200

	// minTitleLen and maxTitleLen bound usable heading-derived titles.
	minTitleLen = 3
	maxTitleLen = 100
)

// Extractor extracts the primary content of a rendered page.
type Extractor struct {
	classifiers []RegionClassifier
	fallback    scrape2md.HTMLExtractor
	minText     int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithFallback sets an extractor consulted when the structural pass
// retains too little text.
func WithFallback(fallback scrape2md.HTMLExtractor) Option {
	return func(e *Extractor) {
		e.fallback = fallback
	}
}

// WithClassifiers replaces the default boilerplate classifier chain.
func WithClassifiers(classifiers ...RegionClassifier) Option {
	return func(e *Extractor) {
		e.classifiers = classifiers
	}
}

// WithMinTextLength overrides the minimum retained text length.
func WithMinTextLength(n int) Option {
	return func(e *Extractor) {
		e.minText = n
	}
}

// NewExtractor returns an Extractor with the default classifier chain.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		classifiers: DefaultClassifiers(),
		minText:     minContentTextLen,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract implements scrape2md.Extractor.
func (e *Extractor) Extract(page *scrape2md.RenderedPage) (*scrape2md.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil, scrape2md.Errorf(scrape2md.EINVALID, "parsing %s: %v", page.URL, err)
	}

	base, err := url.Parse(page.URL)
	if err != nil {
		return nil, scrape2md.Errorf(scrape2md.EINVALID, "invalid page URL %q: %v", page.URL, err)
	}

	e.spliceFrames(doc, page.Frames)

	// The fallback must see the spliced document, not the raw page HTML,
	// or content that lives in frames is lost on the fallback path.
	sourceHTML := page.HTML
	if len(page.Frames) > 0 {
		if spliced, err := goquery.OuterHtml(doc.Selection); err == nil {
			sourceHTML = spliced
		}
	}

	title := extractTitle(doc)

	body := doc.Find("body").First()
	if body.Length() == 0 {
		return &scrape2md.ExtractResult{Title: title}, nil
	}

	e.stripBoilerplate(body)
	region := e.contentRegion(body)

	text := normalizeSpace(region.Text())
	if utf8.RuneCountInString(text) < e.minText {
		return e.extractFallback(sourceHTML, title, base)
	}

	links := collectLinks(region)
	images := collectImages(region, base)

	// The serialized content carries absolute URLs so the markdown
	// stays usable outside the original site and image sources line up
	// with the downloaded-image map.
	absolutize(region, base)
	contentHTML, err := goquery.OuterHtml(region)
	if err != nil {
		return nil, scrape2md.Errorf(scrape2md.EINTERNAL, "serializing content of %s: %v", page.URL, err)
	}

	return &scrape2md.ExtractResult{
		Title:       title,
		ContentHTML: contentHTML,
		Text:        text,
		Links:       links,
		Images:      images,
	}, nil
}

// extractFallback consults the fallback HTML extractor for pages whose
// structural pass retains too little text. Fallback failures are not
// errors; a page without extractable content is a normal result.
func (e *Extractor) extractFallback(sourceHTML, title string, base *url.URL) (*scrape2md.ExtractResult, error) {
	empty := &scrape2md.ExtractResult{Title: title}
	if e.fallback == nil {
		return empty, nil
	}

	fallbackTitle, contentHTML, err := e.fallback.ExtractHTML(sourceHTML)
	if err != nil || strings.TrimSpace(contentHTML) == "" {
		return empty, nil
	}
	if title == "" {
		title = fallbackTitle
		empty.Title = title
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contentHTML))
	if err != nil {
		return empty, nil
	}

	region := doc.Find("body").First()
	text := normalizeSpace(region.Text())
	if utf8.RuneCountInString(text) < e.minText {
		return empty, nil
	}

	links := collectLinks(region)
	images := collectImages(region, base)

	absolutize(region, base)
	if rewritten, err := region.Html(); err == nil {
		contentHTML = rewritten
	}

	return &scrape2md.ExtractResult{
		Title:       title,
		ContentHTML: contentHTML,
		Text:        text,
		Links:       links,
		Images:      images,
	}, nil
}

// spliceFrames replaces each iframe/frame element with the filtered
// content of its rendered frame document. Frames are matched to host
// elements by document order, which is the order the renderer reports
// them in. Frames without usable content are removed so empty shells do
// not survive into the content region.
func (e *Extractor) spliceFrames(doc *goquery.Document, frames []scrape2md.Frame) {
	doc.Find("iframe, frame").Each(func(i int, host *goquery.Selection) {
		if i >= len(frames) {
			host.Remove()
			return
		}
		if content := e.frameContent(frames[i]); content != "" {
			host.ReplaceWithHtml(content)
			return
		}
		host.Remove()
	})
}

// frameContent applies the same boilerplate filtering used on the host
// page to a frame document. Frame-relative links are resolved against the
// frame URL here because the host document cannot resolve them.
func (e *Extractor) frameContent(frame scrape2md.Frame) string {
	if strings.TrimSpace(frame.HTML) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(frame.HTML))
	if err != nil {
		return ""
	}

	if frame.URL != "" {
		if frameURL, err := url.Parse(frame.URL); err == nil {
			absolutize(doc.Selection, frameURL)
		}
	}

	body := doc.Find("body").First()
	if body.Length() == 0 {
		return ""
	}

	e.stripBoilerplate(body)
	region := e.contentRegion(body)

	text := normalizeSpace(region.Text())
	if utf8.RuneCountInString(text) < e.minText {
		return ""
	}

	// A <body> tag must not be spliced into the host document, so the
	// inner HTML is used when the whole body is the content region.
	var html string
	if goquery.NodeName(region) == "body" {
		html, err = region.Html()
	} else {
		html, err = goquery.OuterHtml(region)
	}
	if err != nil {
		return ""
	}
	return html
}

// stripBoilerplate removes script/style elements and every region the
// classifier chain scores at or above the removal threshold. Candidates
// are collected before removal so a removed ancestor cannot invalidate a
// selection mid-iteration.
func (e *Extractor) stripBoilerplate(body *goquery.Selection) {
	body.Find("script, style, noscript, template").Remove()

	var remove []*goquery.Selection
	body.Find("nav, header, footer, aside, form, div, section, ul, ol, table, [role]").Each(func(_ int, sel *goquery.Selection) {
		if e.score(sel) >= boilerplateThreshold {
			remove = append(remove, sel)
		}
	})
	for _, sel := range remove {
		sel.Remove()
	}
}

// score returns the highest confidence among the classifiers.
func (e *Extractor) score(sel *goquery.Selection) float64 {
	var max float64
	for _, c := range e.classifiers {
		if s := c.Score(sel); s > max {
			max = s
		}
	}
	return max
}

// contentLandmarks identify the primary content region, in priority
// order.
var contentLandmarks = []string{
	"main",
	"article",
	"[role='main']",
	"#content",
	"#main-content",
	".content",
	".main-content",
	".page-content",
	".post-content",
}

// contentRegion picks the primary content region of a stripped body: a
// recognized landmark first, then the subtree holding most of the text,
// then the body itself.
func (e *Extractor) contentRegion(body *goquery.Selection) *goquery.Selection {
	for _, landmark := range contentLandmarks {
		region := body.Find(landmark).First()
		if region.Length() > 0 && normalizeSpace(region.Text()) != "" {
			return region
		}
	}
	if dense := densestSubtree(body); dense != nil {
		return dense
	}
	return body
}

// containerTags are the elements densestSubtree may descend into.
// Descending into paragraphs or headings would drop their siblings.
var containerTags = map[string]bool{
	"div":     true,
	"section": true,
	"article": true,
	"main":    true,
	"table":   true,
	"tbody":   true,
	"tr":      true,
	"td":      true,
}

// densestSubtree descends from body toward the deepest container holding
// the dominant share of the text, the usual shape of themes that bury
// content under layout wrappers. Returns nil when no child dominates.
func densestSubtree(body *goquery.Selection) *goquery.Selection {
	const dominance = 0.8

	current := body
	for {
		total := len(normalizeSpace(current.Text()))
		if total == 0 {
			return nil
		}

		var next *goquery.Selection
		current.Children().EachWithBreak(func(_ int, child *goquery.Selection) bool {
			if !containerTags[goquery.NodeName(child)] {
				return true
			}
			if float64(len(normalizeSpace(child.Text()))) >= dominance*float64(total) {
				next = child
				return false
			}
			return true
		})
		if next == nil {
			break
		}
		current = next
	}

	if current == body {
		return nil
	}
	return current
}

// collectLinks gathers hrefs from the retained region, deduplicated in
// document order. Hrefs are returned as found; the crawler normalizes
// them against the page URL.
func collectLinks(region *goquery.Selection) []string {
	var links []string
	seen := make(map[string]bool)
	region.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if href == "" || seen[href] {
			return
		}
		seen[href] = true
		links = append(links, href)
	})
	return links
}

// collectImages gathers absolute image URLs from the retained region,
// deduplicated in document order.
func collectImages(region *goquery.Selection, base *url.URL) []string {
	var images []string
	seen := make(map[string]bool)
	region.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		src := strings.TrimSpace(sel.AttrOr("src", ""))
		if src == "" || strings.HasPrefix(src, "data:") {
			return
		}
		ref, err := url.Parse(src)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref).String()
		if seen[abs] {
			return
		}
		seen[abs] = true
		images = append(images, abs)
	})
	return images
}

// absolutize rewrites href and src attributes under root to absolute
// URLs. data: sources are left alone.
func absolutize(root *goquery.Selection, base *url.URL) {
	rewrite := func(attr string) func(int, *goquery.Selection) {
		return func(_ int, sel *goquery.Selection) {
			val := strings.TrimSpace(sel.AttrOr(attr, ""))
			if val == "" || strings.HasPrefix(val, "data:") {
				return
			}
			ref, err := url.Parse(val)
			if err != nil {
				return
			}
			sel.SetAttr(attr, base.ResolveReference(ref).String())
		}
	}
	root.Find("a[href]").Each(rewrite("href"))
	root.Find("img[src]").Each(rewrite("src"))
}

// siteNameSuffix matches trailing " - Site Name" / " | Site Name"
// segments in <title> text.
var siteNameSuffix = regexp.MustCompile(`\s+[-|]\s+[^-|]*$`)

// titleSkipWords are heading texts that label boilerplate rather than
// name the page.
var titleSkipWords = []string{
	"menu", "log in", "login", "log on", "sign in", "sign up",
	"cookie", "welcome to", "navigation",
}

// extractTitle finds a meaningful page title: the first usable content
// heading, then the <title> tag with any site-name suffix removed.
func extractTitle(doc *goquery.Document) string {
	var title string
	doc.Find("h1, h2").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := normalizeSpace(sel.Text())
		if usableTitle(text) {
			title = text
			return false
		}
		return true
	})
	if title != "" {
		return title
	}

	text := normalizeSpace(doc.Find("title").First().Text())
	text = strings.TrimSpace(siteNameSuffix.ReplaceAllString(text, ""))
	if utf8.RuneCountInString(text) >= minTitleLen {
		return text
	}
	return ""
}

func usableTitle(text string) bool {
	n := utf8.RuneCountInString(text)
	if n < minTitleLen || n > maxTitleLen {
		return false
	}
	lower := strings.ToLower(text)
	for _, word := range titleSkipWords {
		if strings.Contains(lower, word) {
			return false
		}
	}
	return true
}

var whitespace = regexp.MustCompile(`\s+`)

// normalizeSpace collapses all whitespace runs to single spaces and trims
// the ends.
func normalizeSpace(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}
