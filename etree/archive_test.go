package etree_test

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/docsearch"
	"github.com/fwojciec/docsearch/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, name string, parts map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("reports missing files", func(t *testing.T) {
		t.Parallel()

		_, err := etree.Open(context.Background(), filepath.Join(t.TempDir(), "none.docx"))

		assert.Equal(t, docsearch.ENOTFOUND, docsearch.ErrorCode(err))
	})

	t.Run("reports non-zip files as corrupt", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "fake.docx")
		require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

		_, err := etree.Open(context.Background(), path)

		assert.Equal(t, docsearch.ECORRUPT, docsearch.ErrorCode(err))
	})

	t.Run("stops on a canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := etree.Open(ctx, "whatever.docx")

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestArchive_ReadXML(t *testing.T) {
	t.Parallel()

	path := writeZip(t, "doc.zip", map[string]string{
		"Word/Document.xml": `<doc><p>hi</p></doc>`,
		"bad.xml":           `<doc><p>unclosed</doc`,
	})
	a, err := etree.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	t.Run("matches part names case-insensitively", func(t *testing.T) {
		doc, err := a.ReadXML("word/document.xml")

		require.NoError(t, err)
		assert.Equal(t, "doc", doc.Root().Tag)
		assert.True(t, a.Has("/word/document.xml"))
	})

	t.Run("reports missing parts as corrupt", func(t *testing.T) {
		_, err := a.ReadXML("word/styles.xml")

		assert.Equal(t, docsearch.ECORRUPT, docsearch.ErrorCode(err))
		assert.Contains(t, docsearch.ErrorMessage(err), "word/styles.xml")
	})

	t.Run("reports malformed XML as corrupt", func(t *testing.T) {
		_, err := a.ReadXML("bad.xml")

		assert.Equal(t, docsearch.ECORRUPT, docsearch.ErrorCode(err))
	})
}

func TestArchive_Relationships(t *testing.T) {
	t.Parallel()

	path := writeZip(t, "deck.pptx", map[string]string{
		"ppt/_rels/presentation.xml.rels": `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId2" Type="slide" Target="slides/slide1.xml"/>
  <Relationship Id="rId3" Type="slide" Target="/ppt/slides/slide2.xml"/>
  <Relationship Id="rId4" Type="hyperlink" Target="https://example.com" TargetMode="External"/>
</Relationships>`,
	})
	a, err := etree.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	rels, err := a.Relationships("ppt/presentation.xml")

	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"rId2": "ppt/slides/slide1.xml",
		"rId3": "ppt/slides/slide2.xml",
	}, rels)
}

func TestResolvePart(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "OEBPS/text/ch1.xhtml", etree.ResolvePart("OEBPS/", "text/ch1.xhtml#start"))
	assert.Equal(t, "images/a b.png", etree.ResolvePart("OEBPS/", "../images/a%20b.png"))
	assert.Equal(t, "ppt/slides/slide1.xml", etree.ResolvePart("word/", "/ppt/slides/slide1.xml"))
	assert.Equal(t, "content.xml", etree.ResolvePart("", "content.xml"))
}
