package ooxml

import (
	"context"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/docsearch"
	docetree "github.com/fwojciec/docsearch/etree"
)

// Ensure PPTXExtractor implements docsearch.Extractor at compile time.
var _ docsearch.Extractor = (*PPTXExtractor)(nil)

// PPTXExtractor reads a PowerPoint deck as one section per slide, in
// presentation order. Hidden slides are included.
type PPTXExtractor struct{}

// NewPPTXExtractor creates a new PPTXExtractor.
func NewPPTXExtractor() *PPTXExtractor {
	return &PPTXExtractor{}
}

const presentationPart = "ppt/presentation.xml"

// Extract implements docsearch.Extractor.
func (e *PPTXExtractor) Extract(ctx context.Context, path string) ([]*docsearch.Section, error) {
	a, err := docetree.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	slides, err := slideParts(a)
	if err != nil {
		return nil, err
	}

	sections := make([]*docsearch.Section, 0, len(slides))
	for i, part := range slides {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var lines []string
		if part != "" && a.Has(part) {
			doc, err := a.ReadXML(part)
			if err != nil {
				return nil, err
			}
			if tree := doc.FindElement("//cSld/spTree"); tree != nil {
				lines = appendShapes(lines, tree)
			}
		}
		sections = append(sections, docsearch.NewSection(docsearch.KindSlide, i+1, lines))
	}
	return sections, nil
}

// slideParts lists slide part names in p:sldIdLst order. An id whose
// relationship cannot be resolved yields an empty name so that slide
// numbering still follows the presentation.
func slideParts(a *docetree.Archive) ([]string, error) {
	doc, err := a.ReadXML(presentationPart)
	if err != nil {
		return nil, err
	}
	rels, err := a.Relationships(presentationPart)
	if err != nil {
		return nil, err
	}

	var parts []string
	for _, id := range doc.FindElements("//sldIdLst/sldId") {
		parts = append(parts, rels[id.SelectAttrValue("r:id", "")])
	}
	return parts, nil
}

// appendShapes walks a shape tree in order, descending into groups.
func appendShapes(lines []string, tree *etree.Element) []string {
	for _, el := range tree.ChildElements() {
		switch el.Tag {
		case "sp":
			if body := findChild(el, "txBody"); body != nil {
				lines = appendTextBody(lines, body)
			}
		case "grpSp":
			lines = appendShapes(lines, el)
		case "graphicFrame":
			for _, tbl := range el.FindElements(".//graphicData/tbl") {
				lines = appendSlideTable(lines, tbl)
			}
		case "AlternateContent":
			if choice := findChild(el, "Choice"); choice != nil {
				lines = appendShapes(lines, choice)
			}
		}
	}
	return lines
}

func appendTextBody(lines []string, body *etree.Element) []string {
	for _, p := range body.SelectElements("p") {
		lines = docsearch.SplitLines(lines, drawingParagraph(p))
	}
	return lines
}

func appendSlideTable(lines []string, tbl *etree.Element) []string {
	for _, tr := range tbl.SelectElements("tr") {
		var cells []string
		for _, tc := range tr.SelectElements("tc") {
			var paras []string
			if body := findChild(tc, "txBody"); body != nil {
				for _, p := range body.SelectElements("p") {
					if text := strings.TrimSpace(drawingParagraph(p)); text != "" {
						paras = append(paras, text)
					}
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

// drawingParagraph renders a DrawingML paragraph: runs and fields in order,
// a:br as a newline.
func drawingParagraph(p *etree.Element) string {
	var b strings.Builder
	for _, el := range p.ChildElements() {
		switch el.Tag {
		case "r", "fld":
			if t := findChild(el, "t"); t != nil {
				b.WriteString(docetree.Text(t))
			}
		case "br":
			b.WriteByte('\n')
		}
	}
	return b.String()
}
