// Package fs provides read-only filesystem traversal for document search.
package fs

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docsearch"
)

// Ensure Walker implements docsearch.Walker at compile time.
var _ docsearch.Walker = (*Walker)(nil)

// Walker lists regular files under a directory in lexical order.
// Entries whose name starts with a dot are skipped, including whole hidden
// directories, unless IncludeHidden is set.
type Walker struct {
	IncludeHidden bool
}

// NewWalker creates a new Walker that skips hidden entries.
func NewWalker() *Walker {
	return &Walker{}
}

// Walk yields every regular file under root. Directories are read in sorted
// order, so the sequence is deterministic. Symbolic links to regular files
// are yielded; symbolic links to directories are not followed. Directories
// that cannot be read produce an entry carrying the error and the walk
// continues with their siblings.
func (w *Walker) Walk(ctx context.Context, root string) iter.Seq[docsearch.WalkEntry] {
	return func(yield func(docsearch.WalkEntry) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if ctx.Err() != nil {
				return filepath.SkipAll
			}
			if err != nil {
				if !yield(docsearch.WalkEntry{Path: path, Err: docsearch.OpenError(path, err)}) {
					return filepath.SkipAll
				}
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if path != root && !w.IncludeHidden && isHidden(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() || !isFile(path, d) {
				return nil
			}

			if !yield(docsearch.WalkEntry{Path: path}) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func isFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
