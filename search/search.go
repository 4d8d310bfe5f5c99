// Package search implements docgrep: a recursive, regex-based line search
// over document containers with ordered, bounded results.
package search

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/fwojciec/docsearch"
	"golang.org/x/sync/errgroup"
)

// Ensure Searcher implements docsearch.SearchService at compile time.
var _ docsearch.SearchService = (*Searcher)(nil)

// Searcher walks a directory, extracts every supported document and tests
// each line against a pattern.
//
// Extraction runs concurrently, but results are emitted strictly in walk
// order. Once MaxResults matches are collected no further file is opened;
// extractions already running finish and their results are discarded.
type Searcher struct {
	Registry *docsearch.Registry
	Walker   docsearch.Walker

	// Concurrency bounds the number of documents extracted at once.
	// Defaults to GOMAXPROCS.
	Concurrency int
}

// NewSearcher creates a new Searcher.
func NewSearcher(registry *docsearch.Registry, walker docsearch.Walker) *Searcher {
	return &Searcher{Registry: registry, Walker: walker}
}

// fileResult holds the outcome of searching a single file.
type fileResult struct {
	position int
	path     string
	matches  []docsearch.Match
	err      error
}

// Search runs the search described by opts.
func (s *Searcher) Search(ctx context.Context, opts docsearch.SearchOptions) (*docsearch.SearchResult, error) {
	if opts.MaxResults < 1 {
		return nil, docsearch.Errorf(docsearch.EINVALID, "max_results must be at least 1, got %d", opts.MaxResults)
	}
	info, err := os.Stat(opts.Dir)
	if err != nil || !info.IsDir() {
		return nil, docsearch.Errorf(docsearch.EINVALID, "not a directory: %s", opts.Dir)
	}
	re, err := CompilePattern(opts.Pattern, opts.CaseSensitive)
	if err != nil {
		return nil, err
	}
	allowed, err := s.allowedFormats(opts.FileTypes)
	if err != nil {
		return nil, err
	}

	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	resultCh := make(chan fileResult)
	g, gctx := errgroup.WithContext(searchCtx)
	g.SetLimit(concurrency)

	// window holds one slot per dispatched file not yet collected in order,
	// so no file is opened more than concurrency positions past the next
	// file due for collection.
	window := make(chan struct{}, concurrency)

	go func() {
		position := 0
	walk:
		for entry := range s.Walker.Walk(gctx, opts.Dir) {
			if gctx.Err() != nil {
				break
			}
			if entry.Err == nil && !isCandidate(entry.Path, allowed) {
				continue
			}
			select {
			case window <- struct{}{}:
			case <-gctx.Done():
				break walk
			}
			pos := position
			position++
			g.Go(func() error {
				result := s.searchFile(gctx, pos, opts.Dir, entry, re, opts.MaxResults)
				select {
				case resultCh <- result:
				case <-gctx.Done():
				}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Collect results in walk order.
	res := &docsearch.SearchResult{Matches: []docsearch.Match{}}
	pending := make(map[int]fileResult)
	next := 0
	for result := range resultCh {
		if res.Truncated {
			continue
		}
		pending[result.position] = result

		for !res.Truncated {
			cur, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			<-window

			if cur.err != nil {
				res.Skipped = append(res.Skipped, docsearch.Skip{Path: cur.path, Err: cur.err})
				continue
			}
			for _, m := range cur.matches {
				res.Matches = append(res.Matches, m)
				if len(res.Matches) == opts.MaxResults {
					res.Truncated = true
					cancel()
					break
				}
			}
		}
	}

	if !res.Truncated && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return res, nil
}

// searchFile extracts one document and collects up to limit matching lines.
func (s *Searcher) searchFile(ctx context.Context, position int, root string, entry docsearch.WalkEntry, re *regexp.Regexp, limit int) fileResult {
	result := fileResult{
		position: position,
		path:     relPath(root, entry.Path),
	}
	if entry.Err != nil {
		result.err = entry.Err
		return result
	}

	// The cap may have been reached while this file was queued.
	if err := ctx.Err(); err != nil {
		result.err = err
		return result
	}

	extractor, _, err := s.Registry.Resolve(entry.Path)
	if err != nil {
		result.err = err
		return result
	}
	sections, err := extractor.Extract(ctx, entry.Path)
	if err != nil {
		result.err = err
		return result
	}

	for _, section := range sections {
		for i, line := range section.Lines {
			if !re.MatchString(line) {
				continue
			}
			label := section.Label
			if section.Kind == docsearch.KindFlat {
				label = docsearch.LineLabel(i + 1)
			}
			result.matches = append(result.matches, docsearch.Match{
				Path:  result.path,
				Label: label,
				Line:  strings.TrimSpace(line),
			})
			if len(result.matches) == limit {
				return result
			}
		}
	}
	return result
}

// allowedFormats resolves the optional file type allow-list against the
// registry. An empty list allows every registered format.
func (s *Searcher) allowedFormats(fileTypes []string) (map[docsearch.Format]bool, error) {
	allowed := make(map[docsearch.Format]bool)
	if len(fileTypes) == 0 {
		for _, f := range s.Registry.List() {
			allowed[f] = true
		}
		return allowed, nil
	}

	for _, ft := range fileTypes {
		f, err := docsearch.ParseFormat(ft)
		if err != nil {
			return nil, docsearch.Errorf(docsearch.EINVALID, "%s", docsearch.ErrorMessage(err))
		}
		if s.Registry.Supports(f) {
			allowed[f] = true
		}
	}
	return allowed, nil
}

// CompilePattern compiles an RE2 pattern, case-insensitively unless
// caseSensitive is set. Returns EPATTERN if the pattern is invalid.
func CompilePattern(pattern string, caseSensitive bool) (*regexp.Regexp, error) {
	expr := pattern
	if !caseSensitive {
		expr = "(?i)" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, docsearch.Errorf(docsearch.EPATTERN, "invalid regex pattern %q: %v", pattern, err)
	}
	return re, nil
}

func isCandidate(path string, allowed map[docsearch.Format]bool) bool {
	f, err := docsearch.FormatOf(path)
	return err == nil && allowed[f]
}

// relPath reports path relative to root with forward slashes.
func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
