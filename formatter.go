package docsearch

import (
	"strings"
)

// Messages returned in place of empty output.
const (
	NoMatchesMessage = "No matches found."
	NoContentMessage = "No text content found."
)

// FormatMatches renders a search result grep-style: one "path:label:line"
// per match followed by one "path:error:message" per skipped file.
func FormatMatches(res *SearchResult) string {
	if res == nil || (len(res.Matches) == 0 && len(res.Skipped) == 0) {
		return NoMatchesMessage
	}

	var b strings.Builder
	for _, m := range res.Matches {
		b.WriteString(m.Path)
		b.WriteByte(':')
		b.WriteString(m.Label)
		b.WriteByte(':')
		b.WriteString(m.Line)
		b.WriteByte('\n')
	}
	if len(res.Matches) == 0 {
		b.WriteString(NoMatchesMessage)
		b.WriteByte('\n')
	}
	for _, s := range res.Skipped {
		b.WriteString(s.Path)
		b.WriteString(":error:")
		b.WriteString(ErrorMessage(s.Err))
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// FormatSections renders sections as "=== label ===" headers followed by
// their lines, separated by blank lines. Sections without lines are omitted.
func FormatSections(sections []*Section) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		if len(s.Lines) == 0 {
			continue
		}
		parts = append(parts, "=== "+s.Label+" ===\n"+strings.Join(s.Lines, "\n"))
	}
	return strings.Join(parts, "\n\n")
}
