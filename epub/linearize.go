package epub

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docsearch"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blocks are elements that start and end a line.
var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Li: true, atom.Ul: true,
	atom.Ol: true, atom.Dl: true, atom.Dt: true, atom.Dd: true,
	atom.Blockquote: true, atom.Pre: true, atom.Section: true,
	atom.Article: true, atom.Aside: true, atom.Header: true, atom.Footer: true,
	atom.Nav: true, atom.Figure: true, atom.Figcaption: true, atom.Hr: true,
	atom.Address: true, atom.Table: true, atom.Caption: true, atom.Main: true,
}

// skipped elements contribute no text.
var skipped = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Template: true,
	atom.Noscript: true, atom.Head: true,
}

// Linearize renders the text of sel as lines. Block elements break lines,
// table rows become tab-joined lines, whitespace inside text is collapsed
// and blank lines are dropped.
func Linearize(sel *goquery.Selection) []string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeNode(&b, n)
	}

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func writeNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		writeCollapsed(b, n.Data)
		return
	case html.ElementNode:
	case html.DocumentNode:
		writeChildren(b, n)
		return
	default:
		return
	}

	switch {
	case skipped[n.DataAtom]:
	case n.DataAtom == atom.Br:
		b.WriteByte('\n')
	case n.DataAtom == atom.Tr:
		b.WriteByte('\n')
		b.WriteString(rowText(n))
		b.WriteByte('\n')
	case blocks[n.DataAtom]:
		b.WriteByte('\n')
		writeChildren(b, n)
		b.WriteByte('\n')
	default:
		writeChildren(b, n)
	}
}

func writeChildren(b *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNode(b, c)
	}
}

// rowText renders a table row with tab-separated cells.
func rowText(tr *html.Node) string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.DataAtom != atom.Td && c.DataAtom != atom.Th) {
			continue
		}
		var cell strings.Builder
		writeChildren(&cell, c)
		cells = append(cells, cell.String())
	}
	return docsearch.JoinCells(cells)
}

func writeCollapsed(b *strings.Builder, s string) {
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	if space {
		b.WriteByte(' ')
	}
}
