package docsearch

import "context"

// MaxOutputChars is the size budget of a docread response, in characters.
const MaxOutputChars = 40000

// ReadRequest identifies a document and an optional range.
type ReadRequest struct {
	Path  string `json:"filepath"`
	Range string `json:"range,omitempty"`
}

// ReadResult is the rendered text of a docread call.
type ReadResult struct {
	Text string `json:"text"`

	// TotalChars is the size of the rendered text before truncation.
	TotalChars int `json:"totalChars"`

	// Truncated is set when Text was cut to fit MaxOutputChars.
	Truncated bool `json:"truncated"`
}

// ReadService runs docread.
type ReadService interface {
	// Read extracts the document at req.Path and renders the selected range.
	// Returns ENOTFOUND, EPERMISSION, EUNSUPPORTED, EINVALIDRANGE or ECORRUPT;
	// any failure aborts the whole read.
	Read(ctx context.Context, req ReadRequest) (*ReadResult, error)
}
