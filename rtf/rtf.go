// Package rtf extracts plain text from Rich Text Format documents.
package rtf

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/fwojciec/docsearch"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// Ensure Extractor implements docsearch.Extractor at compile time.
var _ docsearch.Extractor = (*Extractor)(nil)

// Extractor reads an RTF document as a single flat section.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract implements docsearch.Extractor.
func (e *Extractor) Extract(ctx context.Context, path string) ([]*docsearch.Section, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, docsearch.OpenError(path, err)
	}
	if !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n\ufeff"), []byte(`{\rtf`)) {
		return nil, docsearch.Errorf(docsearch.ECORRUPT, "cannot parse %s: missing RTF header", filepath.Base(path))
	}
	return []*docsearch.Section{docsearch.NewFlat(docsearch.SplitLines(nil, Text(data)))}, nil
}

// Text converts RTF source to plain text. Paragraph, line, row, section and
// page breaks become newlines; tabs and table cells become tab characters.
// Non-text destinations such as font tables, pictures and document info
// are dropped.
func Text(data []byte) string {
	p := &parser{data: data, enc: charmap.Windows1252, cur: state{uc: 1}}
	p.run()
	return p.out.String()
}

// destinations whose content is never part of the document text.
var destinations = map[string]bool{
	"fonttbl": true, "colortbl": true, "stylesheet": true, "info": true,
	"pict": true, "object": true, "objdata": true, "fldinst": true,
	"listtable": true, "listoverridetable": true, "rsidtbl": true,
	"revtbl": true, "filetbl": true, "generator": true, "xmlnstbl": true,
	"themedata": true, "colorschememapping": true, "datastore": true,
	"latentstyles": true, "header": true, "headerl": true, "headerr": true,
	"headerf": true, "footer": true, "footerl": true, "footerr": true,
	"footerf": true, "footnote": true, "bkmkstart": true, "bkmkend": true,
	"nonshppict": true, "shppict": true, "pntext": true, "pntxta": true,
	"pntxtb": true, "userprops": true, "template": true, "mmathPr": true,
	"docvar": true,
}

// symbols maps control words to the text they stand for.
var symbols = map[string]string{
	"par": "\n", "line": "\n", "row": "\n", "nestrow": "\n", "sect": "\n",
	"page": "\n", "tab": "\t", "cell": "\t", "nestcell": "\t",
	"emdash": "—", "endash": "–", "bullet": "•",
	"lquote": "‘", "rquote": "’", "ldblquote": "“",
	"rdblquote": "”", "emspace": " ", "enspace": " ", "qmspace": " ",
}

type state struct {
	skip bool
	uc   int
}

type parser struct {
	data  []byte
	pos   int
	out   strings.Builder
	stack []state
	cur   state
	enc   encoding.Encoding

	// pending holds code page bytes awaiting decoding, so that multi-byte
	// characters split across \'hh escapes decode as a unit.
	pending []byte

	// fallback counts characters still to be skipped after \uN.
	fallback int

	// surrogate holds a UTF-16 high surrogate from a preceding \uN.
	surrogate rune
}

func (p *parser) run() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++
		switch c {
		case '{':
			p.flush()
			p.stack = append(p.stack, p.cur)
			p.fallback = 0
		case '}':
			p.flush()
			if n := len(p.stack); n > 0 {
				p.cur = p.stack[n-1]
				p.stack = p.stack[:n-1]
			}
			p.fallback = 0
		case '\\':
			p.control()
		case '\r', '\n':
		default:
			if p.consumeFallback() || p.cur.skip {
				continue
			}
			if c >= 0x80 {
				p.pending = append(p.pending, c)
				continue
			}
			p.flush()
			p.out.WriteByte(c)
		}
	}
	p.flush()
}

// control handles the token following a backslash.
func (p *parser) control() {
	if p.pos >= len(p.data) {
		return
	}
	c := p.data[p.pos]
	if !isLetter(c) {
		p.pos++
		p.symbol(c)
		return
	}

	start := p.pos
	for p.pos < len(p.data) && isLetter(p.data[p.pos]) {
		p.pos++
	}
	word := string(p.data[start:p.pos])

	hasParam := false
	param := 0
	if p.pos < len(p.data) && (p.data[p.pos] == '-' || isDigit(p.data[p.pos])) {
		numStart := p.pos
		p.pos++
		for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
			p.pos++
		}
		if n, err := strconv.Atoi(string(p.data[numStart:p.pos])); err == nil {
			param = n
			hasParam = true
		}
	}
	if p.pos < len(p.data) && p.data[p.pos] == ' ' {
		p.pos++
	}
	p.word(word, param, hasParam)
}

func (p *parser) symbol(c byte) {
	switch c {
	case '*':
		p.cur.skip = true
	case '\'':
		if p.pos+2 > len(p.data) {
			p.pos = len(p.data)
			return
		}
		b, err := strconv.ParseUint(string(p.data[p.pos:p.pos+2]), 16, 8)
		p.pos += 2
		if err != nil || p.consumeFallback() || p.cur.skip {
			return
		}
		p.pending = append(p.pending, byte(b))
	case '\\', '{', '}':
		p.text(string(c))
	case '~':
		p.text(" ")
	case '_':
		p.text("-")
	case '\n', '\r':
		p.text("\n")
	}
}

func (p *parser) word(word string, param int, hasParam bool) {
	switch word {
	case "bin":
		if hasParam && param > 0 {
			p.pos = min(p.pos+param, len(p.data))
		}
		return
	case "uc":
		if hasParam && param >= 0 {
			p.cur.uc = param
		}
		return
	case "u":
		if !hasParam {
			return
		}
		if !p.cur.skip {
			p.unicode(param)
		}
		p.fallback = p.cur.uc
		return
	case "ansicpg":
		if enc := codePage(param); enc != nil {
			p.flush()
			p.enc = enc
		}
		return
	case "mac":
		p.enc = charmap.Macintosh
		return
	case "pc":
		p.enc = charmap.CodePage437
		return
	case "pca":
		p.enc = charmap.CodePage850
		return
	}

	if destinations[word] {
		p.cur.skip = true
		return
	}
	if s, ok := symbols[word]; ok {
		p.text(s)
	}
}

// unicode writes a \uN character; N is a signed 16-bit value.
func (p *parser) unicode(n int) {
	p.flush()
	if n < 0 {
		n += 65536
	}
	r := rune(n)
	switch {
	case utf16.IsSurrogate(r) && r < 0xDC00:
		p.surrogate = r
		return
	case utf16.IsSurrogate(r) && p.surrogate != 0:
		r = utf16.DecodeRune(p.surrogate, r)
	}
	p.surrogate = 0
	p.out.WriteRune(r)
}

// consumeFallback reports whether the current character replaces a
// preceding \uN and must be skipped.
func (p *parser) consumeFallback() bool {
	if p.fallback > 0 {
		p.fallback--
		return true
	}
	return false
}

func (p *parser) text(s string) {
	if p.consumeFallback() || p.cur.skip {
		return
	}
	p.flush()
	p.out.WriteString(s)
}

// flush decodes pending code page bytes.
func (p *parser) flush() {
	if len(p.pending) == 0 {
		return
	}
	decoded, err := p.enc.NewDecoder().Bytes(p.pending)
	if err != nil {
		decoded, _ = charmap.Windows1252.NewDecoder().Bytes(p.pending)
	}
	p.out.Write(decoded)
	p.pending = p.pending[:0]
}

// codePage maps a Windows code page number to its encoding.
func codePage(n int) encoding.Encoding {
	switch n {
	case 437:
		return charmap.CodePage437
	case 850:
		return charmap.CodePage850
	case 852:
		return charmap.CodePage852
	case 866:
		return charmap.CodePage866
	case 874:
		return charmap.Windows874
	case 932:
		return japanese.ShiftJIS
	case 936:
		return simplifiedchinese.GBK
	case 949:
		return korean.EUCKR
	case 950:
		return traditionalchinese.Big5
	case 1250:
		return charmap.Windows1250
	case 1251:
		return charmap.Windows1251
	case 1252:
		return charmap.Windows1252
	case 1253:
		return charmap.Windows1253
	case 1254:
		return charmap.Windows1254
	case 1255:
		return charmap.Windows1255
	case 1256:
		return charmap.Windows1256
	case 1257:
		return charmap.Windows1257
	case 1258:
		return charmap.Windows1258
	case 10000:
		return charmap.Macintosh
	}
	return nil
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
