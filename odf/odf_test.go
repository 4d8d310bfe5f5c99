package odf_test

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const odfNS = `xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" ` +
	`xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0" ` +
	`xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0" ` +
	`xmlns:draw="urn:oasis:names:tc:opendocument:xmlns:drawing:1.0" ` +
	`xmlns:presentation="urn:oasis:names:tc:opendocument:xmlns:presentation:1.0"`

// writePackage writes an OpenDocument package whose body holds content
// inside an office element of the given kind ("text", "spreadsheet",
// "presentation").
func writePackage(t *testing.T, name, kind, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)

	w, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	require.NoError(t, err)
	_, err = w.Write([]byte("application/vnd.oasis.opendocument." + kind))
	require.NoError(t, err)

	w, err = zw.Create("content.xml")
	require.NoError(t, err)
	_, err = fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content %s><office:body><office:%s>%s</office:%s></office:body></office:document-content>`, odfNS, kind, content, kind)
	require.NoError(t, err)

	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}
