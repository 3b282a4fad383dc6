package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/taralika/scrape2md"
)

// Ensure LoggingRenderer implements scrape2md.Renderer.
var _ scrape2md.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with debug logging.
type LoggingRenderer struct {
	next   scrape2md.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next scrape2md.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render logs the rendered URL and delegates to the wrapped renderer.
func (r *LoggingRenderer) Render(ctx context.Context, url string) (page *scrape2md.RenderedPage, err error) {
	defer func(begin time.Time) {
		var bytes, frames int
		if page != nil {
			bytes = len(page.HTML)
			frames = len(page.Frames)
		}
		r.logger.Info("render",
			"url", url,
			"bytes", bytes,
			"frames", frames,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Render(ctx, url)
}

// Close delegates to the wrapped renderer.
func (r *LoggingRenderer) Close() error {
	return r.next.Close()
}
