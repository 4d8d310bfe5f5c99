// Package odf extracts text from OpenDocument files: text (.odt),
// spreadsheets (.ods) and presentations (.odp). All three are read from the
// content.xml part of the package.
package odf

import (
	"context"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	docetree "github.com/fwojciec/docsearch/etree"
)

const contentPart = "content.xml"

// readContent opens the package at path and parses its content part.
func readContent(ctx context.Context, path string) (*etree.Document, error) {
	a, err := docetree.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer a.Close()
	return a.ReadXML(contentPart)
}

// appendBlocks appends the lines of block content under parent: paragraphs
// and headings become lines, tables become tab-joined rows, and anything
// else is descended into. Empty table rows are dropped.
func appendBlocks(lines []string, parent *etree.Element) []string {
	for _, el := range parent.ChildElements() {
		switch el.Tag {
		case "p", "h":
			lines = appendParagraph(lines, el)
		case "table":
			for _, row := range tableRows(el) {
				if row != "" {
					lines = append(lines, row)
				}
			}
		case "notes", "tracked-changes", "annotation", "title", "desc", "forms":
		default:
			lines = appendBlocks(lines, el)
		}
	}
	return lines
}

// appendParagraph splits a paragraph at line breaks. Frames anchored in a
// paragraph contribute their own lines after it.
func appendParagraph(lines []string, p *etree.Element) []string {
	var b strings.Builder
	var nested []*etree.Element
	writeInline(&b, p, &nested)
	lines = splitParagraph(lines, b.String())
	for _, el := range nested {
		lines = appendBlocks(lines, el)
	}
	return lines
}

func splitParagraph(lines []string, text string) []string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// writeInline renders inline content. Whitespace in character data is
// collapsed; text:s, text:tab and text:line-break are honoured. Frames are
// collected into nested for block rendering.
func writeInline(b *strings.Builder, el *etree.Element, nested *[]*etree.Element) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			writeCollapsed(b, t.Data)
		case *etree.Element:
			switch t.Tag {
			case "s":
				b.WriteString(strings.Repeat(" ", repeat(t, "c", maxSpaces)))
			case "tab":
				b.WriteByte('\t')
			case "line-break":
				b.WriteByte('\n')
			case "note-citation", "annotation", "annotation-end", "bookmark-ref":
			case "frame":
				*nested = append(*nested, t)
			default:
				writeInline(b, t, nested)
			}
		}
	}
}

func writeCollapsed(b *strings.Builder, s string) {
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r':
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	if space {
		b.WriteByte(' ')
	}
}

// Expansion limits for repeated rows, cells and spaces. Rows and columns
// follow the spreadsheet grid limits; maxTableBytes bounds the rendered text
// of one table.
const (
	maxRows       = 1 << 20
	maxColumns    = 1 << 14
	maxSpaces     = 1 << 10
	maxTableBytes = 32 << 20
)

// tableRows renders a table:table as one line per row, expanding repeated
// rows and cells. Repeated empty rows and cells are only materialised when
// content follows them, so trailing padding never inflates the result.
// Expansion stops at maxRows lines or maxTableBytes of text.
func tableRows(tbl *etree.Element) []string {
	var lines []string
	pending, size := 0, 0
	full := false
	emit := func(line string) bool {
		if len(lines) >= maxRows || size+len(line)+1 > maxTableBytes {
			full = true
			return false
		}
		lines = append(lines, line)
		size += len(line) + 1
		return true
	}

	var walk func(parent *etree.Element)
	walk = func(parent *etree.Element) {
		for _, el := range parent.ChildElements() {
			if full {
				return
			}
			switch el.Tag {
			case "table-header-rows", "table-rows", "table-row-group":
				walk(el)
			case "table-row":
				n := repeat(el, "number-rows-repeated", maxRows)
				line := rowText(el)
				if line == "" {
					pending = min(pending+n, maxRows)
					continue
				}
				for ; pending > 0; pending-- {
					if !emit("") {
						return
					}
				}
				for range n {
					if !emit(line) {
						return
					}
				}
			}
		}
	}
	walk(tbl)
	return lines
}

// rowText joins the cells of a row with tabs, keeping at most maxColumns.
func rowText(row *etree.Element) string {
	var cells []string
	pending := 0
	for _, el := range row.ChildElements() {
		if el.Tag != "table-cell" && el.Tag != "covered-table-cell" {
			continue
		}
		n := repeat(el, "number-columns-repeated", maxColumns)
		text := cellText(el)
		if text == "" {
			pending = min(pending+n, maxColumns)
			continue
		}
		for ; pending > 0 && len(cells) < maxColumns; pending-- {
			cells = append(cells, "")
		}
		for range min(n, maxColumns-len(cells)) {
			cells = append(cells, text)
		}
		if len(cells) >= maxColumns {
			break
		}
	}
	return strings.Join(cells, "\t")
}

func cellText(cell *etree.Element) string {
	return strings.Join(strings.Fields(strings.Join(appendBlocks(nil, cell), " ")), " ")
}

// repeat reads a positive count attribute, defaulting to 1 and capped at
// limit.
func repeat(el *etree.Element, key string, limit int) int {
	n, err := strconv.Atoi(attr(el, key))
	if err != nil || n < 1 {
		return 1
	}
	return min(n, limit)
}

// attr returns the value of the attribute named key in any namespace.
func attr(el *etree.Element, key string) string {
	for _, a := range el.Attr {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}
