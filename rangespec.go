package docsearch

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Span is an inclusive 1-based range of indices, lines or rows.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether n falls inside the span.
func (s Span) Contains(n int) bool {
	return n >= s.Start && n <= s.End
}

func (s Span) String() string {
	if s.Start == s.End {
		return strconv.Itoa(s.Start)
	}
	return strconv.Itoa(s.Start) + "-" + strconv.Itoa(s.End)
}

// SheetRef selects one or more sheets, optionally restricted to rows.
// Exactly one of Name or Positions is set.
type SheetRef struct {
	Raw       string `json:"raw"`
	Name      string `json:"name,omitempty"`
	Positions *Span  `json:"positions,omitempty"`
	Rows      []Span `json:"rows,omitempty"` // nil selects every row
}

// RangeSpec is a parsed, format-aware selection over a document's sections.
// A nil *RangeSpec selects everything.
type RangeSpec struct {
	Kind SectionKind `json:"kind"`

	// Spans select section indices for paged kinds and line numbers for
	// flat documents.
	Spans []Span `json:"spans,omitempty"`

	// Sheets select sheets and rows for spreadsheet documents.
	Sheets []SheetRef `json:"sheets,omitempty"`
}

var (
	spanRe     = regexp.MustCompile(`^(\d+)\s*(?:-\s*(\d+))?$`)
	spanLikeRe = regexp.MustCompile(`^[\d\s-]+$`)
)

// ParseRange parses a range string against the addressing scheme of kind.
// An empty or blank string returns a nil spec, which selects everything.
// Returns EINVALIDRANGE for malformed tokens, non-positive indices and
// reversed ranges. Sheet names are checked later, by Apply.
func ParseRange(s string, kind SectionKind) (*RangeSpec, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	spec := &RangeSpec{Kind: kind}
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return nil, Errorf(EINVALIDRANGE, "invalid range %q: empty element", s)
		}

		if kind == KindSheet {
			ref, err := parseSheetRef(tok)
			if err != nil {
				return nil, err
			}
			spec.Sheets = append(spec.Sheets, ref)
			continue
		}

		span, err := parseSpan(tok)
		if err != nil {
			return nil, err
		}
		spec.Spans = append(spec.Spans, span)
	}
	return spec, nil
}

// parseSpan parses "N" or "N-M".
func parseSpan(tok string) (Span, error) {
	m := spanRe.FindStringSubmatch(strings.TrimSpace(tok))
	if m == nil {
		return Span{}, Errorf(EINVALIDRANGE, "invalid range element %q: expected N or N-M", tok)
	}
	start, err := atoiSaturated(m[1])
	if err != nil {
		return Span{}, Errorf(EINVALIDRANGE, "invalid range element %q: %v", tok, err)
	}
	end := start
	if m[2] != "" {
		if end, err = atoiSaturated(m[2]); err != nil {
			return Span{}, Errorf(EINVALIDRANGE, "invalid range element %q: %v", tok, err)
		}
	}
	if start <= 0 || end <= 0 {
		return Span{}, Errorf(EINVALIDRANGE, "invalid range element %q: numbers start at 1", tok)
	}
	if start > end {
		return Span{}, Errorf(EINVALIDRANGE, "invalid range element %q: start is greater than end", tok)
	}
	return Span{Start: start, End: end}, nil
}

// atoiSaturated parses a decimal number, saturating at math.MaxInt so
// oversized bounds are clamped like any other out-of-extent index.
func atoiSaturated(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if errors.Is(err, strconv.ErrRange) {
		return math.MaxInt, nil
	}
	return n, err
}

// parseSheetRef parses "ref" or "ref:rows". Text after the last colon that
// does not look like a row range is treated as part of the sheet name.
func parseSheetRef(tok string) (SheetRef, error) {
	ref := tok
	var rows []Span
	if i := strings.LastIndex(tok, ":"); i >= 0 {
		rowPart := strings.TrimSpace(tok[i+1:])
		if spanLikeRe.MatchString(rowPart) {
			span, err := parseSpan(rowPart)
			if err != nil {
				return SheetRef{}, err
			}
			ref = tok[:i]
			rows = []Span{span}
		}
	}

	ref = unquote(strings.TrimSpace(ref))
	if ref == "" {
		return SheetRef{}, Errorf(EINVALIDRANGE, "invalid range element %q: missing sheet reference", tok)
	}

	out := SheetRef{Raw: ref, Rows: rows}
	if spanLikeRe.MatchString(ref) {
		span, err := parseSpan(ref)
		if err != nil {
			return SheetRef{}, err
		}
		out.Positions = &span
		return out, nil
	}
	out.Name = ref
	return out, nil
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// Apply selects sections (and, for flat and sheet kinds, lines) from a
// freshly extracted document. Indices beyond the document's extent are
// clamped. Sections whose lines are only partly selected are returned as new
// values with a suffixed label; sections selected in full are returned
// unchanged, so a range covering the whole document is the identity.
// Returns EINVALIDRANGE when a named sheet does not exist.
func (r *RangeSpec) Apply(sections []*Section) ([]*Section, error) {
	if r == nil {
		return sections, nil
	}

	switch r.Kind {
	case KindSheet:
		return r.applySheets(sections)
	case KindFlat:
		out := make([]*Section, 0, len(sections))
		for _, s := range sections {
			out = append(out, selectLines(s, r.Spans, "lines"))
		}
		return out, nil
	default:
		var out []*Section
		for _, s := range sections {
			if inSpans(r.Spans, s.Index) {
				out = append(out, s)
			}
		}
		return out, nil
	}
}

func (r *RangeSpec) applySheets(sections []*Section) ([]*Section, error) {
	// rows[i] == nil with selected[i] set means every row of sheet i.
	selected := make([]bool, len(sections))
	rows := make([][]Span, len(sections))

	mark := func(i int, ref SheetRef) {
		if selected[i] && rows[i] == nil {
			return
		}
		selected[i] = true
		if ref.Rows == nil {
			rows[i] = nil
			return
		}
		rows[i] = append(rows[i], ref.Rows...)
	}

	for _, ref := range r.Sheets {
		matched := false
		if ref.Positions != nil {
			for i := range sections {
				if ref.Positions.Contains(i + 1) {
					mark(i, ref)
					matched = true
				}
			}
			if matched {
				continue
			}
		}

		for i, s := range sections {
			if s.Label == ref.Raw {
				mark(i, ref)
				matched = true
			}
		}
		if !matched && ref.Positions == nil {
			return nil, Errorf(EINVALIDRANGE, "sheet %q not found (available: %s)", ref.Raw, sheetNames(sections))
		}
	}

	var out []*Section
	for i, s := range sections {
		if !selected[i] {
			continue
		}
		if rows[i] == nil {
			out = append(out, s)
			continue
		}
		out = append(out, selectLines(s, rows[i], "rows"))
	}
	return out, nil
}

// selectLines returns s restricted to the lines inside spans.
func selectLines(s *Section, spans []Span, unit string) *Section {
	clamped := clampSpans(spans, len(s.Lines))

	var lines []string
	for _, span := range clamped {
		lines = append(lines, s.Lines[span.Start-1:span.End]...)
	}
	if len(lines) == len(s.Lines) {
		return s
	}

	label := s.Label
	if len(clamped) > 0 {
		label += " " + unit + " " + formatSpans(clamped)
	}
	return &Section{Kind: s.Kind, Index: s.Index, Label: label, Lines: lines}
}

// clampSpans sorts, merges and clamps spans to [1, n].
func clampSpans(spans []Span, n int) []Span {
	sorted := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Start > n {
			continue
		}
		sorted = append(sorted, Span{Start: s.Start, End: min(s.End, n)})
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var merged []Span
	for _, s := range sorted {
		if last := len(merged) - 1; last >= 0 && s.Start <= merged[last].End+1 {
			merged[last].End = max(merged[last].End, s.End)
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

func formatSpans(spans []Span) string {
	parts := make([]string, len(spans))
	for i, s := range spans {
		parts[i] = s.String()
	}
	return strings.Join(parts, ",")
}

func inSpans(spans []Span, n int) bool {
	for _, s := range spans {
		if s.Contains(n) {
			return true
		}
	}
	return false
}

func sheetNames(sections []*Section) string {
	if len(sections) == 0 {
		return "none"
	}
	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = strconv.Quote(s.Label)
	}
	return strings.Join(names, ", ")
}
