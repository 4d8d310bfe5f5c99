package docsearch

import "context"

// Extractor turns a document on disk into its ordered sections.
type Extractor interface {
	// Extract parses the document at path and returns its sections in
	// document-declared order with strictly increasing Index.
	// Returns ENOTFOUND or EPERMISSION for filesystem failures and ECORRUPT
	// when the container cannot be parsed.
	Extract(ctx context.Context, path string) ([]*Section, error)
}
