package odf

import (
	"context"

	"github.com/fwojciec/docsearch"
)

// Ensure ODTExtractor implements docsearch.Extractor at compile time.
var _ docsearch.Extractor = (*ODTExtractor)(nil)

// ODTExtractor reads an OpenDocument text as a single flat section.
type ODTExtractor struct{}

// NewODTExtractor creates a new ODTExtractor.
func NewODTExtractor() *ODTExtractor {
	return &ODTExtractor{}
}

// Extract implements docsearch.Extractor.
func (e *ODTExtractor) Extract(ctx context.Context, path string) ([]*docsearch.Section, error) {
	doc, err := readContent(ctx, path)
	if err != nil {
		return nil, err
	}

	var lines []string
	if body := doc.FindElement("//body/text"); body != nil {
		lines = appendBlocks(lines, body)
	}
	return []*docsearch.Section{docsearch.NewFlat(lines)}, nil
}
