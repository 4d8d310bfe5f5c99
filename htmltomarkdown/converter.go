// Package htmltomarkdown renders EPUB chapter markup as Markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/docsearch"
)

// Ensure Converter implements docsearch.Converter at compile time.
var _ docsearch.Converter = (*Converter)(nil)

// nonText lists elements that carry no searchable text in a chapter body.
var nonText = []string{"img", "svg", "video", "audio", "object", "iframe"}

// Converter renders chapter XHTML with the CommonMark and table plugins.
// Media elements are dropped so every output line is text.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	for _, tag := range nonText {
		conv.Register.TagType(tag, converter.TagTypeRemove, converter.PriorityStandard)
	}
	return &Converter{conv: conv}
}

// Convert renders a chapter body as Markdown. A body with only media
// yields an empty string.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", docsearch.Errorf(docsearch.EINVALID, "empty chapter markup")
	}

	md, err := c.conv.ConvertString(html)
	if err != nil {
		return "", docsearch.Errorf(docsearch.ECORRUPT, "cannot convert chapter: %v", err)
	}
	return strings.TrimSpace(md), nil
}
