package pdf

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/fwojciec/docsearch"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/text/encoding/charmap"
)

var disableConfigDir sync.Once

// readContentStreams reads path with pdfcpu in relaxed validation mode and
// scans each page's content stream for text showing operators.
func readContentStreams(ctx context.Context, path string) (pages [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, docsearch.Errorf(docsearch.ECORRUPT, "pdfcpu: %v", r)
		}
	}()
	disableConfigDir.Do(api.DisableConfigDir)

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	pdfCtx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, err
	}

	pages = make([][]string, pdfCtx.PageCount)
	for nr := 1; nr <= pdfCtx.PageCount; nr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := pdfcpu.ExtractPageContent(pdfCtx, nr)
		if err != nil || r == nil {
			continue
		}
		data, err := io.ReadAll(r)
		if err != nil {
			continue
		}
		pages[nr-1] = docsearch.SplitLines(nil, ScanText(data))
	}
	return pages, nil
}

// ScanText extracts the strings shown by a content stream's text operators
// (Tj, TJ, ' and "). Line moves start a new line; large negative kerning in
// TJ arrays and same-line moves become spaces. String bytes are decoded as
// Windows-1252, which covers the standard Latin text encodings.
func ScanText(data []byte) string {
	s := &scanner{data: data}
	var b strings.Builder
	var operands []operand
	lastY, haveY := 0.0, false

	newline := func() {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
	}
	space := func() {
		if str := b.String(); str != "" && !strings.HasSuffix(str, " ") && !strings.HasSuffix(str, "\n") {
			b.WriteByte(' ')
		}
	}

	for {
		tok, ok := s.next()
		if !ok {
			break
		}
		if tok.kind != kindOperator {
			operands = append(operands, tok)
			continue
		}

		switch tok.op {
		case "Tj":
			writeLastString(&b, operands)
		case "'":
			newline()
			writeLastString(&b, operands)
		case `"`:
			newline()
			writeLastString(&b, operands)
		case "TJ":
			if n := len(operands); n > 0 && operands[n-1].kind == kindArray {
				for _, el := range operands[n-1].array {
					switch el.kind {
					case kindString:
						b.WriteString(decode(el.str))
					case kindNumber:
						if el.num < -180 {
							space()
						}
					}
				}
			}
		case "Td", "TD":
			if n := len(operands); n >= 2 && operands[n-1].kind == kindNumber {
				if operands[n-1].num != 0 {
					newline()
				} else {
					space()
				}
			}
		case "Tm":
			if n := len(operands); n >= 6 && operands[n-1].kind == kindNumber {
				y := operands[n-1].num
				if haveY && y == lastY {
					space()
				} else {
					newline()
				}
				lastY, haveY = y, true
			}
		case "T*":
			newline()
		case "ID":
			s.skipInlineImage()
		}
		operands = operands[:0]
	}
	return b.String()
}

func writeLastString(b *strings.Builder, operands []operand) {
	if n := len(operands); n > 0 && operands[n-1].kind == kindString {
		b.WriteString(decode(operands[n-1].str))
	}
}

func decode(raw []byte) string {
	// UTF-16BE with byte order mark.
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		var b strings.Builder
		for i := 2; i+1 < len(raw); i += 2 {
			b.WriteRune(rune(raw[i])<<8 | rune(raw[i+1]))
		}
		return b.String()
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

type kind int

const (
	kindOperator kind = iota
	kindNumber
	kindString
	kindName
	kindArray
	kindDict
)

type operand struct {
	kind  kind
	op    string
	num   float64
	str   []byte
	array []operand
}

// scanner tokenizes a PDF content stream.
type scanner struct {
	data []byte
	pos  int
}

func (s *scanner) next() (operand, bool) {
	s.skipSpace()
	if s.pos >= len(s.data) {
		return operand{}, false
	}

	c := s.data[s.pos]
	switch {
	case c == '(':
		s.pos++
		return operand{kind: kindString, str: s.literal()}, true
	case c == '<' && s.peek(1) == '<':
		s.pos += 2
		s.skipDict()
		return operand{kind: kindDict}, true
	case c == '<':
		s.pos++
		return operand{kind: kindString, str: s.hex()}, true
	case c == '[':
		s.pos++
		var arr []operand
		for {
			s.skipSpace()
			if s.pos >= len(s.data) {
				break
			}
			if s.data[s.pos] == ']' {
				s.pos++
				break
			}
			el, ok := s.next()
			if !ok {
				break
			}
			arr = append(arr, el)
		}
		return operand{kind: kindArray, array: arr}, true
	case c == '/':
		s.pos++
		return operand{kind: kindName, op: s.word()}, true
	case c == ']' || c == '>' || c == ')' || c == '{' || c == '}':
		s.pos++
		return s.next()
	}

	w := s.word()
	if w == "" {
		s.pos++
		return s.next()
	}
	if n, err := strconv.ParseFloat(w, 64); err == nil {
		return operand{kind: kindNumber, num: n}, true
	}
	return operand{kind: kindOperator, op: w}, true
}

func (s *scanner) peek(off int) byte {
	if s.pos+off < len(s.data) {
		return s.data[s.pos+off]
	}
	return 0
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.data) {
		switch c := s.data[s.pos]; {
		case isSpace(c):
			s.pos++
		case c == '%':
			for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
				s.pos++
			}
		default:
			return
		}
	}
}

func (s *scanner) word() string {
	start := s.pos
	for s.pos < len(s.data) && !isSpace(s.data[s.pos]) && !isDelimiter(s.data[s.pos]) {
		s.pos++
	}
	return string(s.data[start:s.pos])
}

// literal reads a parenthesised string; the opening paren is consumed.
func (s *scanner) literal() []byte {
	var out []byte
	depth := 1
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return out
			}
		case '\\':
			if s.pos >= len(s.data) {
				return out
			}
			e := s.data[s.pos]
			s.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r':
				if s.peek(0) == '\n' {
					s.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for i := 0; i < 2 && s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '7'; i++ {
						v = v*8 + int(s.data[s.pos]-'0')
						s.pos++
					}
					out = append(out, byte(v))
				} else {
					out = append(out, e)
				}
			}
			continue
		}
		out = append(out, c)
	}
	return out
}

// hex reads a hex string; the opening angle bracket is consumed.
func (s *scanner) hex() []byte {
	var digits []byte
	for s.pos < len(s.data) && s.data[s.pos] != '>' {
		if c := s.data[s.pos]; isHex(c) {
			digits = append(digits, c)
		}
		s.pos++
	}
	s.pos++
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, len(digits)/2)
	for i := range out {
		v, _ := strconv.ParseUint(string(digits[2*i:2*i+2]), 16, 8)
		out[i] = byte(v)
	}
	return out
}

func (s *scanner) skipDict() {
	depth := 1
	for s.pos < len(s.data) && depth > 0 {
		switch {
		case s.data[s.pos] == '<' && s.peek(1) == '<':
			depth++
			s.pos += 2
		case s.data[s.pos] == '>' && s.peek(1) == '>':
			depth--
			s.pos += 2
		case s.data[s.pos] == '(':
			s.pos++
			s.literal()
		default:
			s.pos++
		}
	}
}

// skipInlineImage moves past binary inline image data up to EI.
func (s *scanner) skipInlineImage() {
	for s.pos+2 < len(s.data) {
		if isSpace(s.data[s.pos]) && s.data[s.pos+1] == 'E' && s.data[s.pos+2] == 'I' &&
			(s.pos+3 == len(s.data) || isSpace(s.data[s.pos+3])) {
			s.pos += 3
			return
		}
		s.pos++
	}
	s.pos = len(s.data)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == 0
}

func isDelimiter(c byte) bool {
	return strings.IndexByte("()<>[]{}/%", c) >= 0
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
