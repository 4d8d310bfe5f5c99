package odf

import (
	"context"

	"github.com/fwojciec/docsearch"
)

// Ensure ODPExtractor implements docsearch.Extractor at compile time.
var _ docsearch.Extractor = (*ODPExtractor)(nil)

// ODPExtractor reads an OpenDocument presentation as one section per
// draw:page. Speaker notes are not included.
type ODPExtractor struct{}

// NewODPExtractor creates a new ODPExtractor.
func NewODPExtractor() *ODPExtractor {
	return &ODPExtractor{}
}

// Extract implements docsearch.Extractor.
func (e *ODPExtractor) Extract(ctx context.Context, path string) ([]*docsearch.Section, error) {
	doc, err := readContent(ctx, path)
	if err != nil {
		return nil, err
	}

	var sections []*docsearch.Section
	for i, page := range doc.FindElements("//body/presentation/page") {
		sections = append(sections, docsearch.NewSection(docsearch.KindSlide, i+1, appendBlocks(nil, page)))
	}
	return sections, nil
}
