package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docsearch"
)

// Ensure LoggingSearchService implements docsearch.SearchService.
var _ docsearch.SearchService = (*LoggingSearchService)(nil)

// LoggingSearchService wraps a SearchService with logging.
type LoggingSearchService struct {
	next   docsearch.SearchService
	logger *slog.Logger
}

// NewLoggingSearchService creates a new LoggingSearchService.
func NewLoggingSearchService(next docsearch.SearchService, logger *slog.Logger) *LoggingSearchService {
	return &LoggingSearchService{next: next, logger: logger}
}

// Search delegates to the wrapped service and logs the operation.
func (s *LoggingSearchService) Search(ctx context.Context, opts docsearch.SearchOptions) (res *docsearch.SearchResult, err error) {
	defer func(begin time.Time) {
		var matches, skipped int
		var truncated bool
		if res != nil {
			matches, skipped, truncated = len(res.Matches), len(res.Skipped), res.Truncated
		}
		s.logger.Info("docgrep",
			"dir", opts.Dir,
			"pattern", opts.Pattern,
			"matches", matches,
			"skipped", skipped,
			"truncated", truncated,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, opts)
}
