// Package pdf extracts page text from PDF documents. Pages are laid out
// from glyph positions by ledongthuc/pdf; files it cannot read are re-read
// with pdfcpu and their content streams scanned for text operators.
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/docsearch"
	"github.com/ledongthuc/pdf"
)

// Ensure Extractor implements docsearch.Extractor at compile time.
var _ docsearch.Extractor = (*Extractor)(nil)

// Extractor reads a PDF as one page section per physical page. Pages
// without extractable text are kept as empty sections.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract implements docsearch.Extractor.
func (e *Extractor) Extract(ctx context.Context, path string) ([]*docsearch.Section, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, docsearch.OpenError(path, err)
	}

	pages, err := readPages(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var ferr error
		if pages, ferr = readContentStreams(ctx, path); ferr != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, docsearch.Errorf(docsearch.ECORRUPT, "cannot parse %s: %v", filepath.Base(path), err)
		}
	}

	sections := make([]*docsearch.Section, len(pages))
	for i, lines := range pages {
		sections[i] = docsearch.NewSection(docsearch.KindPage, i+1, lines)
	}
	return sections, nil
}

// readPages lays out every page with ledongthuc/pdf. The library panics
// on some malformed input; panics are returned as errors.
func readPages(ctx context.Context, path string) (pages [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("pdf reader: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	n := r.NumPage()
	pages = make([][]string, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pages[i-1] = Lines(page.Content().Text)
	}
	return pages, nil
}
