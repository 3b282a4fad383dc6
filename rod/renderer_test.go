//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taralika/scrape2md"
	"github.com/taralika/scrape2md/rod"
)

// Ensure Renderer implements scrape2md.Renderer.
var _ scrape2md.Renderer = (*rod.Renderer)(nil)

func TestRenderer_Render_ReturnsRenderedHTML(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
<div id="content">Loading...</div>
<script>
document.getElementById('content').textContent = 'JavaScript Rendered';
</script>
</body>
</html>`))
	}))
	defer srv.Close()

	renderer, err := rod.NewRenderer()
	require.NoError(t, err)
	defer renderer.Close()

	page, err := renderer.Render(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Contains(t, page.HTML, "JavaScript Rendered")
	assert.NotContains(t, page.HTML, "Loading...")
	assert.Equal(t, srv.URL, page.URL)
}

func TestRenderer_Render_CollectsFrameDocuments(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if r.URL.Path == "/embed" {
			_, _ = w.Write([]byte(`<html><body><p>Framed paragraph content.</p></body></html>`))
			return
		}
		_, _ = w.Write([]byte(`<html><body>
<p>Host page content.</p>
<iframe src="/embed"></iframe>
</body></html>`))
	}))
	defer srv.Close()

	renderer, err := rod.NewRenderer()
	require.NoError(t, err)
	defer renderer.Close()

	page, err := renderer.Render(context.Background(), srv.URL)

	require.NoError(t, err)
	require.Len(t, page.Frames, 1)
	assert.Contains(t, page.Frames[0].HTML, "Framed paragraph content")
	assert.Equal(t, srv.URL+"/embed", page.Frames[0].URL)
}

func TestRenderer_Render_ContextCancellation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {}
	}))
	defer srv.Close()

	renderer, err := rod.NewRenderer()
	require.NoError(t, err)
	defer renderer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = renderer.Render(ctx, srv.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderer_Close_Idempotent(t *testing.T) {
	t.Parallel()

	renderer, err := rod.NewRenderer()
	require.NoError(t, err)

	require.NoError(t, renderer.Close())
	require.NoError(t, renderer.Close())
}

func TestRenderer_Render_AfterClose_ReturnsError(t *testing.T) {
	t.Parallel()

	renderer, err := rod.NewRenderer()
	require.NoError(t, err)
	require.NoError(t, renderer.Close())

	_, err = renderer.Render(context.Background(), "http://example.com")

	require.Error(t, err)
	assert.Equal(t, scrape2md.EINVALID, scrape2md.ErrorCode(err))
	assert.Contains(t, scrape2md.ErrorMessage(err), "closed")
}
