// Package etree reads XML parts out of zip-packaged documents (OOXML, ODF
// and EPUB containers) using beevik/etree.
package etree

import (
	"archive/zip"
	"context"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/docsearch"
)

// Archive is an open zip container. Part names are matched exactly first
// and then case-insensitively, since some producers disagree on case.
type Archive struct {
	zr    *zip.ReadCloser
	name  string
	parts map[string]*zip.File
	lower map[string]*zip.File
}

// Open opens the zip container at path. Filesystem failures map to
// ENOTFOUND or EPERMISSION; anything that is not a zip file is ECORRUPT.
func Open(ctx context.Context, path string) (*Archive, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, docsearch.OpenError(path, err)
	}

	a := &Archive{
		zr:    zr,
		name:  filepath.Base(path),
		parts: make(map[string]*zip.File, len(zr.File)),
		lower: make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		a.parts[f.Name] = f
		a.lower[strings.ToLower(f.Name)] = f
	}
	return a, nil
}

// Close releases the underlying file.
func (a *Archive) Close() error {
	return a.zr.Close()
}

// Has reports whether the archive contains the named part.
func (a *Archive) Has(name string) bool {
	return a.lookup(name) != nil
}

func (a *Archive) lookup(name string) *zip.File {
	name = strings.TrimPrefix(name, "/")
	if f, ok := a.parts[name]; ok {
		return f
	}
	return a.lower[strings.ToLower(name)]
}

// ReadFile returns the raw bytes of the named part. A missing or unreadable
// part is ECORRUPT.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	f := a.lookup(name)
	if f == nil {
		return nil, docsearch.Errorf(docsearch.ECORRUPT, "cannot parse %s: missing part %s", a.name, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, docsearch.Errorf(docsearch.ECORRUPT, "cannot parse %s: %s: %v", a.name, name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, docsearch.Errorf(docsearch.ECORRUPT, "cannot parse %s: %s: %v", a.name, name, err)
	}
	return data, nil
}

// ReadXML parses the named part. A missing or malformed part is ECORRUPT.
func (a *Archive) ReadXML(name string) (*etree.Document, error) {
	data, err := a.ReadFile(name)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, docsearch.Errorf(docsearch.ECORRUPT, "cannot parse %s: %s: %v", a.name, name, err)
	}
	if doc.Root() == nil {
		return nil, docsearch.Errorf(docsearch.ECORRUPT, "cannot parse %s: %s has no root element", a.name, name)
	}
	return doc, nil
}

// Relationships reads the OPC relationships of part and returns their
// targets keyed by relationship id, resolved to part names. External
// targets are omitted.
func (a *Archive) Relationships(part string) (map[string]string, error) {
	dir, file := path.Split(strings.TrimPrefix(part, "/"))
	doc, err := a.ReadXML(dir + "_rels/" + file + ".rels")
	if err != nil {
		return nil, err
	}

	rels := make(map[string]string)
	for _, rel := range doc.Root().SelectElements("Relationship") {
		if rel.SelectAttrValue("TargetMode", "") == "External" {
			continue
		}
		id := rel.SelectAttrValue("Id", "")
		target := rel.SelectAttrValue("Target", "")
		if id == "" || target == "" {
			continue
		}
		rels[id] = ResolvePart(dir, target)
	}
	return rels, nil
}

// ResolvePart resolves a reference found in a part living in dir. Absolute
// references are relative to the archive root.
func ResolvePart(dir, ref string) string {
	if i := strings.IndexAny(ref, "#?"); i >= 0 {
		ref = ref[:i]
	}
	if u, err := url.PathUnescape(ref); err == nil {
		ref = u
	}
	if strings.HasPrefix(ref, "/") {
		return path.Clean(strings.TrimPrefix(ref, "/"))
	}
	return strings.TrimPrefix(path.Clean(path.Join(dir, ref)), "/")
}

// Text concatenates the character data directly inside el.
func Text(el *etree.Element) string {
	var b strings.Builder
	for _, tok := range el.Child {
		if cd, ok := tok.(*etree.CharData); ok {
			b.WriteString(cd.Data)
		}
	}
	return b.String()
}
