package pdf

import (
	"bytes"
	"errors"
	"io"
	"strconv"
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokName
	tokString    // literal or hex, already decoded
	tokDictOpen  // <<
	tokDictClose // >>
	tokArrayOpen
	tokArrayClose
	tokKeyword // obj, endobj, stream, R, true, null, xref, ...
)

type token struct {
	kind  tokenKind
	text  string // keyword or name text
	data  []byte // string payload
	i     int64
	f     float64
	isInt bool
	pos   int
}

// lexer tokenizes an in-memory PDF file. Copying the struct snapshots the
// position, which is how the parser looks ahead.
type lexer struct {
	data []byte
	pos  int
}

func isWhitespace(c byte) bool {
	return c == 0x00 || c == 0x09 || c == 0x0A || c == 0x0C || c == 0x0D || c == 0x20
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return isWhitespace(c)
}

func isNumberStart(c byte) bool {
	return c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9')
}

func isRegular(c byte) bool { return !isDelimiter(c) }

func (lx *lexer) next() (token, error) {
	lx.skipSpace()
	if lx.pos >= len(lx.data) {
		return token{}, io.EOF
	}
	start := lx.pos
	c := lx.data[lx.pos]
	switch c {
	case '<':
		if lx.peek(1) == '<' {
			lx.pos += 2
			return token{kind: tokDictOpen, pos: start}, nil
		}
		return lx.hexString()
	case '>':
		if lx.peek(1) == '>' {
			lx.pos += 2
			return token{kind: tokDictClose, pos: start}, nil
		}
		lx.pos++
		return token{kind: tokKeyword, text: ">", pos: start}, nil
	case '[':
		lx.pos++
		return token{kind: tokArrayOpen, pos: start}, nil
	case ']':
		lx.pos++
		return token{kind: tokArrayClose, pos: start}, nil
	case '(':
		return lx.literalString()
	case '/':
		return lx.name()
	}
	if isNumberStart(c) {
		return lx.number()
	}
	if isRegular(c) {
		return lx.keyword()
	}
	lx.pos++
	return token{kind: tokKeyword, text: string(c), pos: start}, nil
}

func (lx *lexer) peek(ahead int) byte {
	if lx.pos+ahead >= len(lx.data) {
		return 0
	}
	return lx.data[lx.pos+ahead]
}

func (lx *lexer) skipSpace() {
	for lx.pos < len(lx.data) {
		c := lx.data[lx.pos]
		if isWhitespace(c) {
			lx.pos++
			continue
		}
		if c == '%' { // comment runs to end of line
			for lx.pos < len(lx.data) && lx.data[lx.pos] != '\n' && lx.data[lx.pos] != '\r' {
				lx.pos++
			}
			continue
		}
		return
	}
}

func (lx *lexer) name() (token, error) {
	start := lx.pos
	lx.pos++ // '/'
	var out bytes.Buffer
	for lx.pos < len(lx.data) {
		c := lx.data[lx.pos]
		if isDelimiter(c) {
			break
		}
		if c == '#' && lx.pos+2 < len(lx.data) { // hex escape
			out.WriteByte(fromHex(lx.data[lx.pos+1])<<4 | fromHex(lx.data[lx.pos+2]))
			lx.pos += 3
			continue
		}
		out.WriteByte(c)
		lx.pos++
	}
	return token{kind: tokName, text: out.String(), pos: start}, nil
}

func (lx *lexer) number() (token, error) {
	start := lx.pos
	for lx.pos < len(lx.data) && (isNumberStart(lx.data[lx.pos]) || lx.data[lx.pos] == 'e' || lx.data[lx.pos] == 'E') {
		lx.pos++
	}
	text := string(lx.data[start:lx.pos])
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return token{kind: tokNumber, i: i, isInt: true, pos: start}, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, errors.New("malformed number " + strconv.Quote(text))
	}
	return token{kind: tokNumber, f: f, pos: start}, nil
}

func (lx *lexer) keyword() (token, error) {
	start := lx.pos
	for lx.pos < len(lx.data) && isRegular(lx.data[lx.pos]) {
		lx.pos++
	}
	return token{kind: tokKeyword, text: string(lx.data[start:lx.pos]), pos: start}, nil
}

func (lx *lexer) literalString() (token, error) {
	start := lx.pos
	lx.pos++ // '('
	var buf bytes.Buffer
	depth := 1
	for lx.pos < len(lx.data) {
		c := lx.data[lx.pos]
		switch c {
		case '\\':
			lx.pos++
			if lx.pos >= len(lx.data) {
				break
			}
			esc := lx.data[lx.pos]
			switch {
			case esc == '\n': // line continuation
				lx.pos++
			case esc == '\r':
				lx.pos++
				if lx.pos < len(lx.data) && lx.data[lx.pos] == '\n' {
					lx.pos++
				}
			case esc >= '0' && esc <= '7': // octal, up to three digits
				val := 0
				for k := 0; k < 3 && lx.pos < len(lx.data); k++ {
					d := lx.data[lx.pos]
					if d < '0' || d > '7' {
						break
					}
					val = val<<3 | int(d-'0')
					lx.pos++
				}
				buf.WriteByte(byte(val))
			default:
				buf.WriteByte(translateEscape(esc))
				lx.pos++
			}
		case '(':
			depth++
			buf.WriteByte(c)
			lx.pos++
		case ')':
			depth--
			lx.pos++
			if depth == 0 {
				return token{kind: tokString, data: buf.Bytes(), pos: start}, nil
			}
			buf.WriteByte(c)
		default:
			buf.WriteByte(c)
			lx.pos++
		}
	}
	return token{}, errors.New("unterminated literal string")
}

func translateEscape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case 'b':
		return '\b'
	case 'f':
		return '\f'
	default:
		return c
	}
}

func (lx *lexer) hexString() (token, error) {
	start := lx.pos
	lx.pos++ // '<'
	var nibbles []byte
	for lx.pos < len(lx.data) {
		c := lx.data[lx.pos]
		if c == '>' {
			lx.pos++
			if len(nibbles)%2 == 1 {
				nibbles = append(nibbles, '0')
			}
			out := make([]byte, 0, len(nibbles)/2)
			for i := 0; i < len(nibbles); i += 2 {
				out = append(out, fromHex(nibbles[i])<<4|fromHex(nibbles[i+1]))
			}
			return token{kind: tokString, data: out, pos: start}, nil
		}
		if !isWhitespace(c) {
			nibbles = append(nibbles, c)
		}
		lx.pos++
	}
	return token{}, errors.New("unterminated hex string")
}

func fromHex(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return 0
	}
}
