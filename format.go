package docsearch

import (
	"path/filepath"
	"strings"
)

// Format identifies a supported document container by its extension.
type Format string

// Supported formats.
const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatPPTX Format = "pptx"
	FormatXLSX Format = "xlsx"
	FormatODT  Format = "odt"
	FormatODS  Format = "ods"
	FormatODP  Format = "odp"
	FormatRTF  Format = "rtf"
	FormatEPUB Format = "epub"
)

// Formats lists every supported format in canonical order.
var Formats = []Format{
	FormatPDF, FormatDOCX, FormatPPTX, FormatXLSX,
	FormatODT, FormatODS, FormatODP, FormatRTF, FormatEPUB,
}

// Kind returns the section kind documents of this format are split into.
func (f Format) Kind() SectionKind {
	switch f {
	case FormatPDF:
		return KindPage
	case FormatPPTX, FormatODP:
		return KindSlide
	case FormatXLSX, FormatODS:
		return KindSheet
	case FormatEPUB:
		return KindChapter
	default:
		return KindFlat
	}
}

// RangeSyntax describes the range grammar accepted for this format.
func (f Format) RangeSyntax() string {
	switch f.Kind() {
	case KindSheet:
		return `sheet name or 1-based index, optional row range after colon (e.g. "1", "Sheet1", "1:1-100", "Revenue:50-200")`
	case KindFlat:
		return `line numbers (e.g. "1-50", "100-200")`
	default:
		return string(f.Kind()) + ` numbers (e.g. "1-5", "3", "1,3,5-7")`
	}
}

// ParseFormat normalises a user-supplied file type such as "pdf", ".PDF"
// or "Docx". Returns EUNSUPPORTED for anything outside Formats.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", Errorf(EUNSUPPORTED, "unsupported file type: %q (supported: %s)", s, supportedList())
}

// FormatOf returns the format of the file at path based on its extension.
func FormatOf(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", Errorf(EUNSUPPORTED, "unsupported file type: %s has no extension (supported: %s)", filepath.Base(path), supportedList())
	}
	return ParseFormat(ext)
}

func supportedList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = "." + string(f)
	}
	return strings.Join(names, ", ")
}
