package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docsearch"
)

// Ensure LoggingReadService implements docsearch.ReadService.
var _ docsearch.ReadService = (*LoggingReadService)(nil)

// LoggingReadService wraps a ReadService with logging.
type LoggingReadService struct {
	next   docsearch.ReadService
	logger *slog.Logger
}

// NewLoggingReadService creates a new LoggingReadService.
func NewLoggingReadService(next docsearch.ReadService, logger *slog.Logger) *LoggingReadService {
	return &LoggingReadService{next: next, logger: logger}
}

// Read delegates to the wrapped service and logs the operation.
func (s *LoggingReadService) Read(ctx context.Context, req docsearch.ReadRequest) (res *docsearch.ReadResult, err error) {
	defer func(begin time.Time) {
		var chars int
		var truncated bool
		if res != nil {
			chars, truncated = res.TotalChars, res.Truncated
		}
		s.logger.Info("docread",
			"path", req.Path,
			"range", req.Range,
			"chars", chars,
			"truncated", truncated,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Read(ctx, req)
}
