package mock

import (
	"context"

	"github.com/fwojciec/docsearch"
)

var _ docsearch.ReadService = (*ReadService)(nil)

// ReadService is a mock implementation of docsearch.ReadService.
type ReadService struct {
	ReadFn func(ctx context.Context, req docsearch.ReadRequest) (*docsearch.ReadResult, error)
}

func (s *ReadService) Read(ctx context.Context, req docsearch.ReadRequest) (*docsearch.ReadResult, error) {
	return s.ReadFn(ctx, req)
}
