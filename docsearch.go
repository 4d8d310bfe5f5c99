// Package docsearch extracts addressable text from office, PDF and e-book
// containers and exposes two operations over it: a recursive regex search
// (docgrep) and a range-filtered read (docread).
//
// This package contains domain types, interfaces and the format-independent
// logic (range grammar, rendering) following Ben Johnson's Standard Package
// Layout. Implementations live in subdirectories named after their primary
// dependency (e.g., excelize/, etree-backed ooxml/ and odf/, mcp/).
package docsearch
