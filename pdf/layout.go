package pdf

import (
	"math"
	"sort"
	"strings"

	"github.com/fwojciec/docsearch"
	"github.com/ledongthuc/pdf"
)

// Lines arranges positioned text into lines. Glyphs are grouped into rows
// by baseline, rows run top to bottom and glyphs left to right; a space is
// inserted where the horizontal gap between glyphs exceeds a fraction of
// the font size.
func Lines(texts []pdf.Text) []string {
	glyphs := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if t.S != "" {
			glyphs = append(glyphs, t)
		}
	}
	if len(glyphs) == 0 {
		return nil
	}

	sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].Y > glyphs[j].Y })

	var rows [][]pdf.Text
	var row []pdf.Text
	baseline := glyphs[0].Y
	for _, g := range glyphs {
		if len(row) > 0 && math.Abs(g.Y-baseline) > rowTolerance(g) {
			rows = append(rows, row)
			row = nil
		}
		if len(row) == 0 {
			baseline = g.Y
		}
		row = append(row, g)
	}
	rows = append(rows, row)

	var lines []string
	for _, row := range rows {
		lines = docsearch.SplitLines(lines, rowText(row))
	}
	return lines
}

func rowTolerance(g pdf.Text) float64 {
	return math.Max(g.FontSize*0.4, 1)
}

func rowText(row []pdf.Text) string {
	sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })

	var b strings.Builder
	end := row[0].X
	for i, g := range row {
		if i > 0 {
			gap := g.X - end
			if gap > math.Max(g.FontSize*0.15, 0.5) && !endsWithSpace(&b) && !strings.HasPrefix(g.S, " ") {
				b.WriteByte(' ')
			}
		}
		b.WriteString(g.S)
		end = math.Max(end, g.X+g.W)
	}
	return b.String()
}

func endsWithSpace(b *strings.Builder) bool {
	s := b.String()
	return s != "" && s[len(s)-1] == ' '
}
