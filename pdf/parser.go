package pdf

import (
	"bytes"
	"errors"
	"fmt"
)

const (
	maxParseDepth = 64
	streamSlack   = 32 // bytes of EOL/padding tolerated before "endstream"
)

type parser struct {
	lx    *lexer
	depth int
}

// object reads one complete object. Integers are folded into references
// when followed by a generation number and the R keyword.
func (p *parser) object() (Object, error) {
	tok, err := p.lx.next()
	if err != nil {
		return nil, err
	}
	return p.objectFrom(tok)
}

func (p *parser) objectFrom(tok token) (Object, error) {
	switch tok.kind {
	case tokNumber:
		if !tok.isInt {
			return tok.f, nil
		}
		if ref, ok := p.tryRef(tok); ok {
			return ref, nil
		}
		return tok.i, nil
	case tokName:
		return Name(tok.text), nil
	case tokString:
		return tok.data, nil
	case tokArrayOpen:
		return p.array()
	case tokDictOpen:
		return p.dictOrStream()
	case tokKeyword:
		switch tok.text {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "null":
			return nil, nil
		}
	}
	return nil, fmt.Errorf("unexpected token %q at %d", tok.text, tok.pos)
}

// tryRef looks ahead for "<gen> R" after an integer, restoring the lexer
// when the pattern does not hold.
func (p *parser) tryRef(num token) (Ref, bool) {
	save := *p.lx
	gen, err := p.lx.next()
	if err == nil && gen.kind == tokNumber && gen.isInt {
		kw, err := p.lx.next()
		if err == nil && kw.kind == tokKeyword && kw.text == "R" {
			return Ref{Num: int(num.i), Gen: int(gen.i)}, true
		}
	}
	*p.lx = save
	return Ref{}, false
}

func (p *parser) array() (Object, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxParseDepth {
		return nil, errors.New("array nesting too deep")
	}
	arr := Array{}
	for {
		tok, err := p.lx.next()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokArrayClose {
			return arr, nil
		}
		obj, err := p.objectFrom(tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

func (p *parser) dictOrStream() (Object, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxParseDepth {
		return nil, errors.New("dict nesting too deep")
	}
	dict := Dict{}
	for {
		tok, err := p.lx.next()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokDictClose {
			break
		}
		if tok.kind != tokName {
			return nil, fmt.Errorf("dict key is not a name at %d", tok.pos)
		}
		val, err := p.object()
		if err != nil {
			return nil, err
		}
		dict[Name(tok.text)] = val
	}

	save := *p.lx
	tok, err := p.lx.next()
	if err == nil && tok.kind == tokKeyword && tok.text == "stream" {
		return p.stream(dict)
	}
	*p.lx = save
	return dict, nil
}

// stream slices the payload following a stream keyword. The declared
// /Length is trusted only when "endstream" actually follows it; otherwise
// the payload runs to the next "endstream" marker, which also covers
// indirect or wrong lengths.
func (p *parser) stream(header Dict) (Object, error) {
	lx := p.lx
	if lx.pos < len(lx.data) && lx.data[lx.pos] == '\r' {
		lx.pos++
	}
	if lx.pos < len(lx.data) && lx.data[lx.pos] == '\n' {
		lx.pos++
	}
	start := lx.pos

	end := -1
	if n, ok := header["Length"].(int64); ok && n >= 0 && start+int(n) <= len(lx.data) {
		cand := start + int(n)
		if followedByEndstream(lx.data, cand) {
			end = cand
		}
	}
	if end < 0 {
		idx := bytes.Index(lx.data[start:], []byte("endstream"))
		if idx < 0 {
			return nil, errors.New("unterminated stream")
		}
		end = start + idx
		for end > start && (lx.data[end-1] == '\n' || lx.data[end-1] == '\r') {
			end--
		}
	}
	raw := append([]byte(nil), lx.data[start:end]...)

	idx := bytes.Index(lx.data[end:], []byte("endstream"))
	if idx < 0 {
		return nil, errors.New("unterminated stream")
	}
	lx.pos = end + idx + len("endstream")
	return &Stream{Header: header, Raw: raw}, nil
}

func followedByEndstream(data []byte, pos int) bool {
	limit := pos + streamSlack
	if limit > len(data) {
		limit = len(data)
	}
	window := data[pos:limit]
	for len(window) > 0 && isWhitespace(window[0]) {
		window = window[1:]
	}
	return bytes.HasPrefix(window, []byte("endstream"))
}
