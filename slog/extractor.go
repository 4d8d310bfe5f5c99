package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docsearch"
)

// Ensure LoggingExtractor implements docsearch.Extractor.
var _ docsearch.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   docsearch.Extractor
	format docsearch.Format
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor for format.
func NewLoggingExtractor(next docsearch.Extractor, format docsearch.Format, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, format: format, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the operation.
func (e *LoggingExtractor) Extract(ctx context.Context, path string) (sections []*docsearch.Section, err error) {
	defer func(begin time.Time) {
		e.logger.Debug("extract",
			"path", path,
			"format", e.format,
			"sections", len(sections),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(ctx, path)
}
