// Package read implements docread: extraction of a single document with
// optional range selection and a bounded output size.
package read

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/docsearch"
)

// Ensure Reader implements docsearch.ReadService at compile time.
var _ docsearch.ReadService = (*Reader)(nil)

// Reader renders documents resolved through a Registry.
type Reader struct {
	Registry *docsearch.Registry

	// MaxChars bounds the rendered output, in characters.
	// Defaults to docsearch.MaxOutputChars.
	MaxChars int
}

// NewReader creates a new Reader.
func NewReader(registry *docsearch.Registry) *Reader {
	return &Reader{Registry: registry, MaxChars: docsearch.MaxOutputChars}
}

// Read extracts req.Path, applies req.Range and renders the selection.
func (r *Reader) Read(ctx context.Context, req docsearch.ReadRequest) (*docsearch.ReadResult, error) {
	info, err := os.Stat(req.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, docsearch.OpenError(req.Path, err)
		}
		return nil, docsearch.Errorf(docsearch.EINTERNAL, "stat %s: %v", req.Path, err)
	}
	if info.IsDir() {
		return nil, docsearch.Errorf(docsearch.EINVALID, "is a directory: %s", req.Path)
	}

	extractor, format, err := r.Registry.Resolve(req.Path)
	if err != nil {
		return nil, err
	}

	// Parse before extracting so a malformed range fails fast.
	spec, err := docsearch.ParseRange(req.Range, format.Kind())
	if err != nil {
		return nil, err
	}

	sections, err := extractor.Extract(ctx, req.Path)
	if err != nil {
		return nil, err
	}
	selected, err := spec.Apply(sections)
	if err != nil {
		return nil, err
	}

	text := docsearch.FormatSections(selected)
	if text == "" {
		text = docsearch.NoContentMessage
	}

	limit := r.MaxChars
	if limit <= 0 {
		limit = docsearch.MaxOutputChars
	}
	return Truncate(text, limit), nil
}

// Truncate limits text to at most limit characters, cutting at a line
// boundary, and appends a marker naming the shown and total sizes.
// Text within the limit is returned unchanged.
func Truncate(text string, limit int) *docsearch.ReadResult {
	total := utf8.RuneCountInString(text)
	if total <= limit {
		return &docsearch.ReadResult{Text: text, TotalChars: total}
	}

	shown, n := 0, 0
	for line := range strings.Lines(text) {
		size := utf8.RuneCountInString(line)
		if n+size > limit {
			break
		}
		shown += len(line)
		n += size
	}

	// Only whole lines are kept; a first line longer than the budget
	// leaves nothing but the marker.
	kept := strings.TrimRight(text[:shown], "\n")
	n = utf8.RuneCountInString(kept)
	marker := fmt.Sprintf("... output truncated: showing %d of %d characters. Use range to narrow results.", n, total)
	if kept == "" {
		return &docsearch.ReadResult{Text: marker, TotalChars: total, Truncated: true}
	}
	return &docsearch.ReadResult{
		Text:       kept + "\n\n" + marker,
		TotalChars: total,
		Truncated:  true,
	}
}
