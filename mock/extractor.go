package mock

import (
	"context"

	"github.com/fwojciec/docsearch"
)

var _ docsearch.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of docsearch.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, path string) ([]*docsearch.Section, error)
}

func (e *Extractor) Extract(ctx context.Context, path string) ([]*docsearch.Section, error) {
	return e.ExtractFn(ctx, path)
}
