package docsearch

import (
	"strconv"
	"strings"
)

// SectionKind identifies the natural unit a container is organised by.
type SectionKind string

// Section kinds. Flat applies to line-addressed formats.
const (
	KindPage    SectionKind = "page"
	KindSlide   SectionKind = "slide"
	KindSheet   SectionKind = "sheet"
	KindChapter SectionKind = "chapter"
	KindFlat    SectionKind = "flat"
)

// FlatLabel is the label of the single section of a line-addressed document.
const FlatLabel = "document"

// Section is the addressable unit produced by extraction.
//
// Sections are values owned by the caller of Extract; nothing in this module
// modifies a Section's Lines once it has been returned.
type Section struct {
	Kind  SectionKind `json:"kind"`
	Index int         `json:"index"`
	Label string      `json:"label"`
	Lines []string    `json:"lines"`
}

// NewSection returns a section of the given kind whose label renders the kind
// and index, e.g. "page 3". Sheets should use NewSheet instead.
func NewSection(kind SectionKind, index int, lines []string) *Section {
	label := string(kind) + " " + strconv.Itoa(index)
	if kind == KindFlat {
		label = FlatLabel
	}
	return &Section{Kind: kind, Index: index, Label: label, Lines: lines}
}

// NewSheet returns a sheet section labelled with the sheet's declared name.
func NewSheet(index int, name string, rows []string) *Section {
	return &Section{Kind: KindSheet, Index: index, Label: name, Lines: rows}
}

// NewFlat returns the single flat section of a line-addressed document.
func NewFlat(lines []string) *Section {
	return NewSection(KindFlat, 1, lines)
}

// LineLabel returns the label reported for the 1-based line n of a flat
// section in search results.
func LineLabel(n int) string {
	return "line " + strconv.Itoa(n)
}

// SplitLines splits text into lines on any newline convention and appends
// the lines that are not blank to dst, trimming trailing whitespace.
func SplitLines(dst []string, text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t ")
		if strings.TrimSpace(line) == "" {
			continue
		}
		dst = append(dst, line)
	}
	return dst
}

// JoinCells renders one table or sheet row: cells are tab-joined in column
// order, interior empty cells are kept to preserve alignment and trailing
// empty cells are dropped.
func JoinCells(cells []string) string {
	end := len(cells)
	for end > 0 && strings.TrimSpace(cells[end-1]) == "" {
		end--
	}
	out := make([]string, end)
	for i := 0; i < end; i++ {
		out[i] = strings.Join(strings.Fields(cells[i]), " ")
	}
	return strings.Join(out, "\t")
}
