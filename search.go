package docsearch

import (
	"context"
	"iter"
)

// DefaultMaxResults is the match cap used when a caller does not set one.
const DefaultMaxResults = 100

// SearchOptions configures a docgrep call.
type SearchOptions struct {
	// Dir is the directory searched recursively.
	Dir string `json:"directory"`

	// Pattern is an RE2 regular expression tested against each line.
	Pattern string `json:"pattern"`

	// CaseSensitive disables the default case-insensitive matching.
	CaseSensitive bool `json:"caseSensitive"`

	// FileTypes restricts the search to these extensions ("pdf" or ".pdf").
	// Empty means every supported format.
	FileTypes []string `json:"fileTypes,omitempty"`

	// MaxResults caps the number of matches. Must be at least 1.
	MaxResults int `json:"maxResults"`
}

// Match is one search hit.
type Match struct {
	Path  string `json:"path"`
	Label string `json:"label"`
	Line  string `json:"line"`
}

// Skip records a file the search could not read.
type Skip struct {
	Path string `json:"path"`
	Err  error  `json:"-"`
}

// SearchResult holds matches in walk order, then section order, then line
// order, followed by the files that were skipped.
type SearchResult struct {
	Matches []Match `json:"matches"`
	Skipped []Skip  `json:"skipped,omitempty"`

	// Truncated is set when the search stopped at MaxResults.
	Truncated bool `json:"truncated"`
}

// SearchService runs docgrep.
type SearchService interface {
	// Search walks opts.Dir and returns matching lines.
	// Returns EINVALID for a bad directory or MaxResults, EPATTERN for a
	// pattern that does not compile. Per-file failures never fail the call;
	// they are reported in SearchResult.Skipped.
	Search(ctx context.Context, opts SearchOptions) (*SearchResult, error)
}

// WalkEntry is one file produced by a Walker, or an error for a path that
// could not be listed.
type WalkEntry struct {
	Path string
	Err  error
}

// Walker lists candidate files under a root directory.
type Walker interface {
	// Walk yields regular files under root in lexical path order.
	// Iteration stops early when the consumer stops or ctx is done.
	Walk(ctx context.Context, root string) iter.Seq[WalkEntry]
}
