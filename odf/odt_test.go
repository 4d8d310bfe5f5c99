package odf_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fwojciec/docsearch"
	"github.com/fwojciec/docsearch/odf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestODTExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("reads paragraphs, headings and lists in order", func(t *testing.T) {
		t.Parallel()

		path := writePackage(t, "doc.odt", "text", `
<text:sequence-decls/>
<text:h text:outline-level="1">Annual   report</text:h>
<text:p>Revenue <text:span>grew</text:span><text:s text:c="2"/>fast<text:tab/>(est.)</text:p>
<text:p/>
<text:list><text:list-item><text:p>first item</text:p></text:list-item><text:list-item><text:list><text:list-item><text:p>nested item</text:p></text:list-item></text:list></text:list-item></text:list>
<text:section><text:p>in a section<text:line-break/>after break</text:p></text:section>`)

		sections, err := odf.NewODTExtractor().Extract(context.Background(), path)

		require.NoError(t, err)
		require.Len(t, sections, 1)
		assert.Equal(t, docsearch.KindFlat, sections[0].Kind)
		assert.Equal(t, []string{
			"Annual report",
			"Revenue grew  fast\t(est.)",
			"first item",
			"nested item",
			"in a section",
			"after break",
		}, sections[0].Lines)
	})

	t.Run("renders tables as tab-joined rows", func(t *testing.T) {
		t.Parallel()

		path := writePackage(t, "doc.odt", "text", `
<text:p>Intro</text:p>
<table:table table:name="T1">
  <table:table-column table:number-columns-repeated="2"/>
  <table:table-header-rows><table:table-row><table:table-cell><text:p>Name</text:p></table:table-cell><table:table-cell><text:p>Qty</text:p></table:table-cell></table:table-row></table:table-header-rows>
  <table:table-row><table:table-cell><text:p>Bolts</text:p></table:table-cell><table:table-cell><text:p>12</text:p></table:table-cell></table:table-row>
</table:table>
<text:p>Outro</text:p>`)

		sections, err := odf.NewODTExtractor().Extract(context.Background(), path)

		require.NoError(t, err)
		assert.Equal(t, []string{"Intro", "Name\tQty", "Bolts\t12", "Outro"}, sections[0].Lines)
	})

	t.Run("skips tracked deletions and annotations", func(t *testing.T) {
		t.Parallel()

		path := writePackage(t, "doc.odt", "text", `
<text:tracked-changes><text:changed-region><text:deletion><text:p>deleted</text:p></text:deletion></text:changed-region></text:tracked-changes>
<text:p>kept<office:annotation><text:p>comment</text:p></office:annotation></text:p>`)

		sections, err := odf.NewODTExtractor().Extract(context.Background(), path)

		require.NoError(t, err)
		assert.Equal(t, []string{"kept"}, sections[0].Lines)
	})

	t.Run("caps repeated spaces", func(t *testing.T) {
		t.Parallel()

		path := writePackage(t, "doc.odt", "text", `<text:p>a<text:s text:c="1000000000"/>b</text:p>`)

		sections, err := odf.NewODTExtractor().Extract(context.Background(), path)

		require.NoError(t, err)
		require.Len(t, sections[0].Lines, 1)
		assert.Len(t, sections[0].Lines[0], 1026)
	})

	t.Run("reports missing files", func(t *testing.T) {
		t.Parallel()

		_, err := odf.NewODTExtractor().Extract(context.Background(), filepath.Join(t.TempDir(), "none.odt"))

		assert.Equal(t, docsearch.ENOTFOUND, docsearch.ErrorCode(err))
	})
}
