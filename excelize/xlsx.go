// Package excelize extracts worksheet text from .xlsx workbooks.
package excelize

import (
	"context"
	"path/filepath"

	"github.com/fwojciec/docsearch"
	"github.com/xuri/excelize/v2"
)

// Ensure Extractor implements docsearch.Extractor at compile time.
var _ docsearch.Extractor = (*Extractor)(nil)

// Extractor reads every worksheet of a workbook, in workbook order, as a
// sheet section labelled with the sheet name. Line N of a section is row N
// of the sheet; cells are tab-separated formatted values.
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
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, docsearch.OpenError(path, err)
	}
	defer f.Close()

	names := f.GetSheetList()
	sections := make([]*docsearch.Section, 0, len(names))
	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, docsearch.Errorf(docsearch.ECORRUPT, "cannot parse %s: sheet %q: %v", filepath.Base(path), name, err)
		}
		sections = append(sections, docsearch.NewSheet(i+1, name, sheetLines(rows)))
	}
	return sections, nil
}

// sheetLines renders rows so that line N stays row N: empty rows between
// data are kept as empty lines and trailing empty rows are dropped.
func sheetLines(rows [][]string) []string {
	lines := make([]string, len(rows))
	last := 0
	for i, row := range rows {
		lines[i] = docsearch.JoinCells(row)
		if lines[i] != "" {
			last = i + 1
		}
	}
	return lines[:last]
}
