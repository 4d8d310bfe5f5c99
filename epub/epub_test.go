package epub_test

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/docsearch"
	"github.com/fwojciec/docsearch/epub"
	"github.com/fwojciec/docsearch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const container = `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles><rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/></rootfiles>
</container>`

const opf = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="id">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>Test</dc:title></metadata>
  <manifest>
    <item id="c1" href="text/ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="c2" href="text/ch2.xhtml" media-type="application/xhtml+xml"/>
    <item id="c3" href="text/missing.xhtml" media-type="application/xhtml+xml"/>
    <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>
  </manifest>
  <spine>
    <itemref idref="c2"/>
    <itemref idref="c1"/>
    <itemref idref="c3"/>
  </spine>
</package>`

func xhtml(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml"><head><title>t</title><style>p { color: red; }</style></head><body>` + body + `</body></html>`
}

func writeBook(t *testing.T, parts map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.epub")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	require.NoError(t, err)
	_, err = w.Write([]byte("application/epub+zip"))
	require.NoError(t, err)
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

func book(t *testing.T) string {
	t.Helper()
	return writeBook(t, map[string]string{
		"META-INF/container.xml": container,
		"OEBPS/content.opf":      opf,
		"OEBPS/text/ch1.xhtml": xhtml(`<h1>Chapter One</h1>
<p>It was a   bright cold day<br/>in April.</p>
<script>var x = 1;</script>
<table><tr><th>Name</th><th>Age</th></tr><tr><td>Winston</td><td><p>39</p></td></tr></table>`),
		"OEBPS/text/ch2.xhtml": xhtml(`<section><h2>Preface</h2><p>Call me <em>Ishmael</em>.</p></section>`),
	})
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("returns chapters in spine order", func(t *testing.T) {
		t.Parallel()

		sections, err := epub.NewExtractor().Extract(context.Background(), book(t))

		require.NoError(t, err)
		require.Len(t, sections, 3)
		assert.Equal(t, docsearch.KindChapter, sections[0].Kind)
		assert.Equal(t, "chapter 1", sections[0].Label)
		assert.Equal(t, []string{"Preface", "Call me Ishmael."}, sections[0].Lines)
		assert.Equal(t, "chapter 2", sections[1].Label)
		assert.Equal(t, []string{
			"Chapter One",
			"It was a bright cold day",
			"in April.",
			"Name\tAge",
			"Winston\t39",
		}, sections[1].Lines)
	})

	t.Run("yields an empty chapter for a missing spine target", func(t *testing.T) {
		t.Parallel()

		sections, err := epub.NewExtractor().Extract(context.Background(), book(t))

		require.NoError(t, err)
		require.Len(t, sections, 3)
		assert.Equal(t, 3, sections[2].Index)
		assert.Empty(t, sections[2].Lines)
	})

	t.Run("converts chapters with the configured converter", func(t *testing.T) {
		t.Parallel()

		var inputs []string
		conv := &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				inputs = append(inputs, html)
				return "# Heading\n\nbody text\n", nil
			},
		}
		e := &epub.Extractor{Converter: conv}

		sections, err := e.Extract(context.Background(), book(t))

		require.NoError(t, err)
		assert.Equal(t, []string{"# Heading", "body text"}, sections[0].Lines)
		require.Len(t, inputs, 2)
		assert.Contains(t, inputs[0], "Ishmael")
		assert.False(t, strings.Contains(inputs[1], "var x"), "scripts are removed before conversion")
	})

	t.Run("reports a missing container as corrupt", func(t *testing.T) {
		t.Parallel()

		path := writeBook(t, map[string]string{"OEBPS/content.opf": opf})

		_, err := epub.NewExtractor().Extract(context.Background(), path)

		assert.Equal(t, docsearch.ECORRUPT, docsearch.ErrorCode(err))
	})

	t.Run("reports a missing package document as corrupt", func(t *testing.T) {
		t.Parallel()

		path := writeBook(t, map[string]string{"META-INF/container.xml": container})

		_, err := epub.NewExtractor().Extract(context.Background(), path)

		assert.Equal(t, docsearch.ECORRUPT, docsearch.ErrorCode(err))
	})
}
