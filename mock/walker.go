package mock

import (
	"context"
	"iter"

	"github.com/fwojciec/docsearch"
)

var _ docsearch.Walker = (*Walker)(nil)

// Walker is a mock implementation of docsearch.Walker.
type Walker struct {
	WalkFn func(ctx context.Context, root string) iter.Seq[docsearch.WalkEntry]
}

func (w *Walker) Walk(ctx context.Context, root string) iter.Seq[docsearch.WalkEntry] {
	return w.WalkFn(ctx, root)
}

// Entries returns a walk sequence yielding the given paths in order.
func Entries(paths ...string) iter.Seq[docsearch.WalkEntry] {
	return func(yield func(docsearch.WalkEntry) bool) {
		for _, p := range paths {
			if !yield(docsearch.WalkEntry{Path: p}) {
				return
			}
		}
	}
}
