// Package ooxml extracts text from Office Open XML documents: Word (.docx)
// and PowerPoint (.pptx). Spreadsheets are handled by the excelize package.
package ooxml

import (
	"context"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/docsearch"
	docetree "github.com/fwojciec/docsearch/etree"
)

// Ensure DOCXExtractor implements docsearch.Extractor at compile time.
var _ docsearch.Extractor = (*DOCXExtractor)(nil)

// DOCXExtractor reads a Word document as a single flat section. Body
// paragraphs and table rows appear in document order; table cells are
// tab-separated.
type DOCXExtractor struct{}

// NewDOCXExtractor creates a new DOCXExtractor.
func NewDOCXExtractor() *DOCXExtractor {
	return &DOCXExtractor{}
}

// Extract implements docsearch.Extractor.
func (e *DOCXExtractor) Extract(ctx context.Context, path string) ([]*docsearch.Section, error) {
	a, err := docetree.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	doc, err := a.ReadXML("word/document.xml")
	if err != nil {
		return nil, err
	}
	body := findChild(doc.Root(), "body")
	if body == nil {
		return []*docsearch.Section{docsearch.NewFlat(nil)}, nil
	}

	var lines []string
	lines = appendBlocks(lines, body)
	return []*docsearch.Section{docsearch.NewFlat(lines)}, nil
}

// appendBlocks walks block-level content: paragraphs, tables and the
// containers that wrap them.
func appendBlocks(lines []string, parent *etree.Element) []string {
	for _, el := range parent.ChildElements() {
		switch el.Tag {
		case "p":
			lines = docsearch.SplitLines(lines, paragraphText(el))
		case "tbl":
			lines = appendTable(lines, el)
		case "sdt":
			if content := findChild(el, "sdtContent"); content != nil {
				lines = appendBlocks(lines, content)
			}
		case "customXml", "ins", "smartTag":
			lines = appendBlocks(lines, el)
		}
	}
	return lines
}

func appendTable(lines []string, tbl *etree.Element) []string {
	for _, tr := range rows(tbl) {
		var cells []string
		for _, tc := range cellsOf(tr) {
			var paras []string
			for _, p := range tc.FindElements(".//p") {
				if text := strings.TrimSpace(paragraphText(p)); text != "" {
					paras = append(paras, text)
				}
			}
			cells = append(cells, strings.Join(paras, " "))
		}
		if line := docsearch.JoinCells(cells); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// rows returns the table rows of tbl, looking through content controls.
func rows(tbl *etree.Element) []*etree.Element {
	var out []*etree.Element
	for _, el := range tbl.ChildElements() {
		switch el.Tag {
		case "tr":
			out = append(out, el)
		case "sdt":
			if content := findChild(el, "sdtContent"); content != nil {
				out = append(out, rows(content)...)
			}
		}
	}
	return out
}

func cellsOf(tr *etree.Element) []*etree.Element {
	var out []*etree.Element
	for _, el := range tr.ChildElements() {
		switch el.Tag {
		case "tc":
			out = append(out, el)
		case "sdt":
			if content := findChild(el, "sdtContent"); content != nil {
				out = append(out, cellsOf(content)...)
			}
		}
	}
	return out
}

// paragraphText renders the runs of a paragraph. Breaks become newlines and
// tabs become tab characters; properties and deleted text are ignored.
func paragraphText(p *etree.Element) string {
	var b strings.Builder
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		for _, child := range el.ChildElements() {
			switch child.Tag {
			case "pPr", "rPr", "del", "instrText", "delText", "fldChar":
			case "t":
				b.WriteString(docetree.Text(child))
			case "tab", "ptab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			case "noBreakHyphen":
				b.WriteByte('-')
			case "sym":
				b.WriteString(symbol(child))
			default:
				walk(child)
			}
		}
	}
	walk(p)
	return b.String()
}

// symbol decodes a w:sym character reference. Private-use symbol font
// codes are dropped.
func symbol(el *etree.Element) string {
	code := el.SelectAttrValue("w:char", "")
	var r rune
	for _, c := range code {
		var d rune
		switch {
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'a' && c <= 'f':
			d = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			d = c - 'A' + 10
		default:
			return ""
		}
		r = r<<4 | d
	}
	if r == 0 || (r >= 0xE000 && r <= 0xF8FF) {
		return ""
	}
	return string(r)
}

func findChild(el *etree.Element, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			return child
		}
	}
	return nil
}
