package epub_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docsearch/epub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want []string
	}{
		{
			name: "breaks lines at block elements",
			html: `<div>one<p>two</p>three</div>`,
			want: []string{"one", "two", "three"},
		},
		{
			name: "keeps inline elements on the same line",
			html: `<p>a <b>bold</b> and <a href="#x">linked</a> word</p>`,
			want: []string{"a bold and linked word"},
		},
		{
			name: "renders list items as lines",
			html: `<ul><li>first</li><li>second <i>item</i></li></ul>`,
			want: []string{"first", "second item"},
		},
		{
			name: "skips scripts, styles and templates",
			html: `<p>kept</p><script>alert(1)</script><style>p{}</style><template><p>t</p></template>`,
			want: []string{"kept"},
		},
		{
			name: "keeps empty interior table cells",
			html: `<table><tr><td>a</td><td></td><td>c</td><td> </td></tr></table>`,
			want: []string{"a\t\tc"},
		},
		{
			name: "returns nothing for an empty body",
			html: ``,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + tt.html + "</body></html>"))
			require.NoError(t, err)

			assert.Equal(t, tt.want, epub.Linearize(doc.Find("body")))
		})
	}
}
