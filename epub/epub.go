// Package epub extracts chapter text from EPUB books. The container and
// package documents are read with etree; chapter XHTML is parsed with
// goquery.
package epub

import (
	"bytes"
	"context"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docsearch"
	docetree "github.com/fwojciec/docsearch/etree"
)

// Ensure Extractor implements docsearch.Extractor at compile time.
var _ docsearch.Extractor = (*Extractor)(nil)

const containerPart = "META-INF/container.xml"

// Extractor reads an EPUB as one chapter section per spine entry, in spine
// order. A spine entry whose document is missing yields an empty chapter.
type Extractor struct {
	// Converter, when set, renders chapters as Markdown instead of plain
	// text.
	Converter docsearch.Converter
}

// NewExtractor creates a new Extractor producing plain text.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract implements docsearch.Extractor.
func (e *Extractor) Extract(ctx context.Context, path string) ([]*docsearch.Section, error) {
	a, err := docetree.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	spine, err := readSpine(a)
	if err != nil {
		return nil, err
	}

	sections := make([]*docsearch.Section, 0, len(spine))
	for i, part := range spine {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var lines []string
		if part != "" && a.Has(part) {
			data, err := a.ReadFile(part)
			if err != nil {
				return nil, err
			}
			if lines, err = e.chapterLines(part, data); err != nil {
				return nil, err
			}
		}
		sections = append(sections, docsearch.NewSection(docsearch.KindChapter, i+1, lines))
	}
	return sections, nil
}

func (e *Extractor) chapterLines(part string, data []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, docsearch.Errorf(docsearch.ECORRUPT, "cannot parse chapter %s: %v", part, err)
	}
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return nil, nil
	}

	if e.Converter == nil {
		return Linearize(body), nil
	}

	body.Find("script, style").Remove()
	html, err := body.Html()
	if err != nil {
		return nil, docsearch.Errorf(docsearch.ECORRUPT, "cannot render chapter %s: %v", part, err)
	}
	if strings.TrimSpace(html) == "" {
		return nil, nil
	}
	md, err := e.Converter.Convert(html)
	if err != nil {
		return nil, err
	}
	return docsearch.SplitLines(nil, md), nil
}

// readSpine resolves the spine of the package document named by the
// container to part names. Spine entries whose manifest item is missing
// resolve to "".
func readSpine(a *docetree.Archive) ([]string, error) {
	container, err := a.ReadXML(containerPart)
	if err != nil {
		return nil, err
	}
	rootfile := container.FindElement("//rootfiles/rootfile[@media-type='application/oebps-package+xml']")
	if rootfile == nil {
		rootfile = container.FindElement("//rootfiles/rootfile")
	}
	if rootfile == nil {
		return nil, docsearch.Errorf(docsearch.ECORRUPT, "cannot parse %s: no rootfile", containerPart)
	}
	opfPath := docetree.ResolvePart("", rootfile.SelectAttrValue("full-path", ""))

	opf, err := a.ReadXML(opfPath)
	if err != nil {
		return nil, err
	}
	dir := path.Dir(opfPath) + "/"
	if dir == "./" {
		dir = ""
	}

	manifest := make(map[string]string)
	for _, item := range opf.FindElements("//manifest/item") {
		manifest[item.SelectAttrValue("id", "")] = docetree.ResolvePart(dir, item.SelectAttrValue("href", ""))
	}

	var parts []string
	for _, ref := range opf.FindElements("//spine/itemref") {
		parts = append(parts, manifest[ref.SelectAttrValue("idref", "")])
	}
	return parts, nil
}
