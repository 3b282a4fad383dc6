package slog

import (
	"log/slog"
	"time"

	"github.com/taralika/scrape2md"
)

// Ensure LoggingExtractor implements scrape2md.Extractor.
var _ scrape2md.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   scrape2md.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next scrape2md.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) Extract(page *scrape2md.RenderedPage) (result *scrape2md.ExtractResult, err error) {
	defer func(begin time.Time) {
		var links, images int
		empty := true
		if result != nil {
			links = len(result.Links)
			images = len(result.Images)
			empty = result.Empty()
		}
		e.logger.Info("extract",
			"url", page.URL,
			"empty", empty,
			"links", links,
			"images", images,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(page)
}
