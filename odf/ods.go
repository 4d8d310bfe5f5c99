package odf

import (
	"context"

	"github.com/fwojciec/docsearch"
)

// Ensure ODSExtractor implements docsearch.Extractor at compile time.
var _ docsearch.Extractor = (*ODSExtractor)(nil)

// ODSExtractor reads an OpenDocument spreadsheet as one sheet section per
// table, labelled with the table name. Line N of a section is row N.
type ODSExtractor struct{}

// NewODSExtractor creates a new ODSExtractor.
func NewODSExtractor() *ODSExtractor {
	return &ODSExtractor{}
}

// Extract implements docsearch.Extractor.
func (e *ODSExtractor) Extract(ctx context.Context, path string) ([]*docsearch.Section, error) {
	doc, err := readContent(ctx, path)
	if err != nil {
		return nil, err
	}

	var sections []*docsearch.Section
	for i, tbl := range doc.FindElements("//body/spreadsheet/table") {
		sections = append(sections, docsearch.NewSheet(i+1, attr(tbl, "name"), tableRows(tbl)))
	}
	return sections, nil
}
