package goquery_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taralika/scrape2md"
	"github.com/taralika/scrape2md/goquery"
	"github.com/taralika/scrape2md/mock"
)

// longText is comfortably above the default minimum content length.
var longText = strings.TrimSpace(strings.Repeat("The quick brown fox jumps over the lazy dog. ", 10))

func extract(t *testing.T, page *scrape2md.RenderedPage, opts ...goquery.Option) *scrape2md.ExtractResult {
	t.Helper()
	result, err := goquery.NewExtractor(opts...).Extract(page)
	require.NoError(t, err)
	return result
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("strips navigation and footer boilerplate", func(t *testing.T) {
		t.Parallel()

		page := &scrape2md.RenderedPage{
			URL: "https://example.com/about",
			HTML: `<html><head><title>About</title></head><body>
				<nav><a href="/home">Home</a> <a href="/pricing">Pricing</a> <a href="/blog">Blog</a></nav>
				<div><h1>About Us</h1><p>` + longText + `</p><a href="/team">Meet the team</a></div>
				<footer><a href="/privacy">Privacy</a> Copyright 2026</footer>
			</body></html>`,
		}

		result := extract(t, page)

		assert.Equal(t, "About Us", result.Title)
		assert.Contains(t, result.Text, "quick brown fox")
		assert.NotContains(t, result.ContentHTML, "Pricing")
		assert.NotContains(t, result.ContentHTML, "Copyright")
		assert.Equal(t, []string{"/team"}, result.Links)
	})

	t.Run("prefers a main landmark over larger siblings", func(t *testing.T) {
		t.Parallel()

		page := &scrape2md.RenderedPage{
			URL: "https://example.com/",
			HTML: `<html><body>
				<div><p>Related articles you might enjoy reading today. ` + longText + `</p></div>
				<main><h1>Welcome Page</h1><p>` + longText + `</p></main>
			</body></html>`,
		}

		result := extract(t, page)

		assert.Contains(t, result.ContentHTML, "Welcome Page")
		assert.NotContains(t, result.ContentHTML, "Related articles")
	})

	t.Run("removes regions named like boilerplate", func(t *testing.T) {
		t.Parallel()

		page := &scrape2md.RenderedPage{
			URL: "https://example.com/post",
			HTML: `<html><body>
				<div class="cookie-banner">We use cookies. <a href="/cookies">Learn more</a></div>
				<div id="sidebar"><a href="/archive">Archive</a></div>
				<div class="post-body"><h1>A Long Story</h1><p>` + longText + `</p></div>
			</body></html>`,
		}

		result := extract(t, page)

		assert.NotContains(t, result.ContentHTML, "cookies")
		assert.NotContains(t, result.ContentHTML, "Archive")
		assert.Empty(t, result.Links)
		assert.Contains(t, result.Text, "quick brown fox")
	})

	t.Run("removes link-dense lists inside content", func(t *testing.T) {
		t.Parallel()

		page := &scrape2md.RenderedPage{
			URL: "https://example.com/guide",
			HTML: `<html><body><main>
				<h1>Field Guide</h1><p>` + longText + `</p>
				<ul>
					<li><a href="/a">First related article</a></li>
					<li><a href="/b">Second related article</a></li>
					<li><a href="/c">Third related article</a></li>
					<li><a href="/d">Fourth related article</a></li>
				</ul>
			</main></body></html>`,
		}

		result := extract(t, page)

		assert.Contains(t, result.Text, "quick brown fox")
		assert.NotContains(t, result.ContentHTML, "related article")
		assert.Empty(t, result.Links)
	})

	t.Run("collects links from the retained region only", func(t *testing.T) {
		t.Parallel()

		page := &scrape2md.RenderedPage{
			URL: "https://example.com/docs",
			HTML: `<html><body>
				<nav><a href="/nav-only">Nav</a></nav>
				<main><p>` + longText + `</p>
					<a href="/first">First</a>
					<a href="/second">Second</a>
					<a href="/first">First again</a>
				</main>
			</body></html>`,
		}

		result := extract(t, page)

		assert.Equal(t, []string{"/first", "/second"}, result.Links)
	})

	t.Run("resolves image URLs against the page URL", func(t *testing.T) {
		t.Parallel()

		page := &scrape2md.RenderedPage{
			URL: "https://example.com/gallery/",
			HTML: `<html><body><main><p>` + longText + `</p>
				<img src="photo.png" alt="photo">
				<img src="/static/logo.png" alt="logo">
				<img src="data:image/gif;base64,R0lGOD" alt="inline">
			</main></body></html>`,
		}

		result := extract(t, page)

		assert.Equal(t, []string{
			"https://example.com/gallery/photo.png",
			"https://example.com/static/logo.png",
		}, result.Images)
	})

	t.Run("splices frame content at the host element", func(t *testing.T) {
		t.Parallel()

		page := &scrape2md.RenderedPage{
			URL: "https://example.com/report",
			HTML: `<html><body><main>
				<h1>Quarterly Report</h1><p>` + longText + `</p>
				<iframe src="https://frames.example.net/embed"></iframe>
			</main></body></html>`,
			Frames: []scrape2md.Frame{{
				URL: "https://frames.example.net/embed",
				HTML: `<html><body>
					<nav><a href="/frame-nav">Frame nav</a></nav>
					<p>Embedded figures follow. ` + longText + `</p>
					<a href="/details">Details</a>
				</body></html>`,
			}},
		}

		result := extract(t, page)

		assert.Contains(t, result.Text, "Embedded figures follow")
		assert.NotContains(t, result.ContentHTML, "Frame nav")
		assert.NotContains(t, result.ContentHTML, "<iframe")
		assert.Contains(t, result.Links, "https://frames.example.net/details")
	})

	t.Run("drops frames without usable content", func(t *testing.T) {
		t.Parallel()

		page := &scrape2md.RenderedPage{
			URL: "https://example.com/video",
			HTML: `<html><body><main>
				<p>` + longText + `</p>
				<iframe src="https://ads.example.net/slot"></iframe>
			</main></body></html>`,
			Frames: []scrape2md.Frame{{
				URL:  "https://ads.example.net/slot",
				HTML: `<html><body><a href="/buy">Buy now</a></body></html>`,
			}},
		}

		result := extract(t, page)

		assert.NotContains(t, result.ContentHTML, "Buy now")
		assert.NotContains(t, result.ContentHTML, "<iframe")
		assert.Empty(t, result.Links)
	})

	t.Run("removes iframes with no rendered frame", func(t *testing.T) {
		t.Parallel()

		page := &scrape2md.RenderedPage{
			URL: "https://example.com/page",
			HTML: `<html><body><main><p>` + longText + `</p>
				<iframe src="https://example.com/lost"></iframe>
			</main></body></html>`,
		}

		result := extract(t, page)

		assert.NotContains(t, result.ContentHTML, "<iframe")
	})

	t.Run("returns empty content for pages below the minimum length", func(t *testing.T) {
		t.Parallel()

		page := &scrape2md.RenderedPage{
			URL:  "https://example.com/stub",
			HTML: `<html><head><title>Stub Page</title></head><body><p>Nothing here.</p></body></html>`,
		}

		result := extract(t, page)

		assert.True(t, result.Empty())
		assert.Equal(t, "Stub Page", result.Title)
		assert.Empty(t, result.Links)
	})

	t.Run("consults the fallback when structure retains nothing", func(t *testing.T) {
		t.Parallel()

		fallback := &mock.HTMLExtractor{
			ExtractHTMLFn: func(html string) (string, string, error) {
				return "Recovered Title", "<p>" + longText + "</p>", nil
			},
		}

		page := &scrape2md.RenderedPage{
			URL:  "https://example.com/odd",
			HTML: `<html><body><p>Short.</p></body></html>`,
		}

		result := extract(t, page, goquery.WithFallback(fallback))

		assert.False(t, result.Empty())
		assert.Equal(t, "Recovered Title", result.Title)
		assert.Contains(t, result.Text, "quick brown fox")
	})

	t.Run("fallback failure yields an empty result", func(t *testing.T) {
		t.Parallel()

		fallback := &mock.HTMLExtractor{
			ExtractHTMLFn: func(html string) (string, string, error) {
				return "", "", scrape2md.Errorf(scrape2md.EINTERNAL, "boom")
			},
		}

		page := &scrape2md.RenderedPage{
			URL:  "https://example.com/odd",
			HTML: `<html><head><title>Odd</title></head><body><p>Short.</p></body></html>`,
		}

		result := extract(t, page, goquery.WithFallback(fallback))

		assert.True(t, result.Empty())
		assert.Equal(t, "Odd", result.Title)
	})

	t.Run("fallback sees spliced frame content", func(t *testing.T) {
		t.Parallel()

		var received string
		fallback := &mock.HTMLExtractor{
			ExtractHTMLFn: func(html string) (string, string, error) {
				received = html
				return "", "", nil
			},
		}

		// The main landmark is too short to keep, so the fallback runs;
		// it must be handed the document with the frame spliced in.
		page := &scrape2md.RenderedPage{
			URL: "https://example.com/embed-only",
			HTML: `<html><body>
				<main><p>Short teaser.</p></main>
				<iframe src="https://frames.example.net/reader"></iframe>
			</body></html>`,
			Frames: []scrape2md.Frame{{
				URL:  "https://frames.example.net/reader",
				HTML: `<html><body><article><p>Embedded reading material. ` + longText + `</p></article></body></html>`,
			}},
		}

		extract(t, page, goquery.WithFallback(fallback))

		assert.Contains(t, received, "Embedded reading material")
		assert.NotContains(t, received, "<iframe")
	})

	t.Run("rejects an invalid page URL", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewExtractor().Extract(&scrape2md.RenderedPage{
			URL:  "https://example.com/%zz\x7f",
			HTML: "<html><body></body></html>",
		})

		require.Error(t, err)
		assert.Equal(t, scrape2md.EINVALID, scrape2md.ErrorCode(err))
	})

	t.Run("extraction is deterministic", func(t *testing.T) {
		t.Parallel()

		page := &scrape2md.RenderedPage{
			URL: "https://example.com/stable",
			HTML: `<html><body>
				<nav><a href="/x">X</a></nav>
				<main><h1>Stable Page</h1><p>` + longText + `</p><a href="/next">Next</a></main>
			</body></html>`,
		}

		first := extract(t, page)
		second := extract(t, page)

		assert.Equal(t, first, second)
	})
}

func TestExtractor_Titles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "first heading wins",
			html: `<html><head><title>Site</title></head><body><h1>Real Heading</h1></body></html>`,
			want: "Real Heading",
		},
		{
			name: "boilerplate headings are skipped",
			html: `<html><body><h2>Login</h2><h1>Account Overview</h1></body></html>`,
			want: "Account Overview",
		},
		{
			name: "overlong headings are skipped",
			html: `<html><head><title>Short</title></head><body><h1>` + strings.Repeat("word ", 40) + `</h1></body></html>`,
			want: "Short",
		},
		{
			name: "title tag site suffix is stripped",
			html: `<html><head><title>Getting Started | Example Corp</title></head><body></body></html>`,
			want: "Getting Started",
		},
		{
			name: "no usable title",
			html: `<html><head><title>ab</title></head><body></body></html>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := extract(t, &scrape2md.RenderedPage{
				URL:  "https://example.com/",
				HTML: tt.html,
			})
			assert.Equal(t, tt.want, result.Title)
		})
	}
}
