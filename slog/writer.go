package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/taralika/scrape2md"
)

// Ensure LoggingPageWriter implements scrape2md.PageWriter.
var _ scrape2md.PageWriter = (*LoggingPageWriter)(nil)

// LoggingPageWriter wraps a PageWriter with debug logging.
type LoggingPageWriter struct {
	next   scrape2md.PageWriter
	logger *slog.Logger
}

// NewLoggingPageWriter creates a new LoggingPageWriter.
func NewLoggingPageWriter(next scrape2md.PageWriter, logger *slog.Logger) *LoggingPageWriter {
	return &LoggingPageWriter{next: next, logger: logger}
}

// WritePage delegates to the wrapped writer and logs the write.
func (w *LoggingPageWriter) WritePage(ctx context.Context, page *scrape2md.Page) (err error) {
	defer func(begin time.Time) {
		w.logger.Info("write page",
			"url", page.URL,
			"filename", page.Filename,
			"bytes", len(page.Content),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.WritePage(ctx, page)
}
