package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

const maxXrefEntries = 1 << 20

// readXref loads the cross-reference chain rooted at the startxref offset.
// Sections are visited newest first, so the first entry seen for an object
// number wins, and so does the first trailer value for a key.
func readXref(data []byte) (map[int]int64, Dict, error) {
	start, err := startxref(data)
	if err != nil {
		return nil, nil, err
	}
	offsets := map[int]int64{}
	trailer := Dict{}
	seen := map[int64]bool{}
	for start >= 0 && start < int64(len(data)) && !seen[start] {
		seen[start] = true
		prev, err := readSection(data, start, offsets, trailer)
		if err != nil {
			return nil, nil, err
		}
		start = prev
	}
	return offsets, trailer, nil
}

func startxref(data []byte) (int64, error) {
	tail := data
	if len(tail) > 1024 {
		tail = tail[len(tail)-1024:]
	}
	idx := bytes.LastIndex(tail, []byte("startxref"))
	if idx < 0 {
		return -1, errors.New("startxref not found")
	}
	lx := &lexer{data: tail, pos: idx + len("startxref")}
	tok, err := lx.next()
	if err != nil || tok.kind != tokNumber || !tok.isInt {
		return -1, errors.New("bad startxref offset")
	}
	return tok.i, nil
}

// readSection parses one classic xref table plus its trailer and returns
// the /Prev offset, or -1 when the chain ends.
func readSection(data []byte, offset int64, offsets map[int]int64, trailer Dict) (int64, error) {
	lx := &lexer{data: data, pos: int(offset)}
	tok, err := lx.next()
	if err != nil {
		return -1, err
	}
	if tok.kind != tokKeyword || tok.text != "xref" {
		return -1, fmt.Errorf("no xref table at %d", offset)
	}
	for {
		tok, err := lx.next()
		if err != nil {
			return -1, err
		}
		if tok.kind == tokKeyword && tok.text == "trailer" {
			break
		}
		if tok.kind != tokNumber || !tok.isInt {
			return -1, fmt.Errorf("bad xref subsection at %d", tok.pos)
		}
		first := tok.i
		cnt, err := lx.next()
		if err != nil {
			return -1, err
		}
		if cnt.kind != tokNumber || !cnt.isInt || cnt.i < 0 || cnt.i > maxXrefEntries {
			return -1, fmt.Errorf("bad xref count at %d", cnt.pos)
		}
		for k := int64(0); k < cnt.i; k++ {
			off, err := lx.next()
			if err != nil {
				return -1, err
			}
			gen, err := lx.next()
			if err != nil {
				return -1, err
			}
			use, err := lx.next()
			if err != nil {
				return -1, err
			}
			if off.kind != tokNumber || gen.kind != tokNumber || use.kind != tokKeyword {
				return -1, fmt.Errorf("bad xref entry at %d", off.pos)
			}
			num := int(first + k)
			if use.text == "n" {
				if _, ok := offsets[num]; !ok {
					offsets[num] = off.i
				}
			}
		}
	}
	p := &parser{lx: lx}
	obj, err := p.object()
	if err != nil {
		return -1, err
	}
	d, ok := obj.(Dict)
	if !ok {
		return -1, errors.New("trailer is not a dictionary")
	}
	for k, v := range d {
		if _, ok := trailer[k]; !ok {
			trailer[k] = v
		}
	}
	if prev, ok := d["Prev"].(int64); ok {
		return prev, nil
	}
	return -1, nil
}

// rebuild recovers object offsets by scanning the whole file for object
// headers. This is the fallback for damaged cross references and for
// cross-reference streams, which the table reader does not understand.
func rebuild(data []byte) (map[int]int64, Dict) {
	offsets := map[int]int64{}
	var trailer Dict
	for from := 0; ; {
		rel := bytes.Index(data[from:], []byte("obj"))
		if rel < 0 {
			break
		}
		idx := from + rel
		from = idx + len("obj")
		num, hdr := headerBefore(data, idx)
		if hdr < 0 {
			continue
		}
		offsets[num] = int64(hdr)
		from = skipStreamPayload(data, from)
	}
	for from := 0; ; {
		rel := bytes.Index(data[from:], []byte("trailer"))
		if rel < 0 {
			break
		}
		from += rel + len("trailer")
		p := &parser{lx: &lexer{data: data, pos: from}}
		obj, err := p.object()
		if err != nil {
			continue
		}
		if d, ok := obj.(Dict); ok {
			trailer = d
		}
	}
	return offsets, trailer
}

// headerBefore backtracks from an "obj" marker over "<num> <gen> " and
// returns the object number and header offset, or -1 when the marker is
// not a real header.
func headerBefore(data []byte, idx int) (int, int) {
	after := idx + len("obj")
	if after < len(data) && isRegular(data[after]) {
		return 0, -1
	}
	i := idx - 1
	if i < 0 || !isWhitespace(data[i]) {
		return 0, -1
	}
	for i >= 0 && isWhitespace(data[i]) {
		i--
	}
	genEnd := i
	for i >= 0 && data[i] >= '0' && data[i] <= '9' {
		i--
	}
	if i == genEnd || i < 0 || !isWhitespace(data[i]) {
		return 0, -1
	}
	for i >= 0 && isWhitespace(data[i]) {
		i--
	}
	numEnd := i
	for i >= 0 && data[i] >= '0' && data[i] <= '9' {
		i--
	}
	if i == numEnd {
		return 0, -1
	}
	numStart := i + 1
	num, err := strconv.Atoi(string(data[numStart : numEnd+1]))
	if err != nil {
		return 0, -1
	}
	return num, numStart
}

// skipStreamPayload advances past a stream body when one opens before the
// enclosing object ends, so binary payload bytes are never misread as
// object headers.
func skipStreamPayload(data []byte, from int) int {
	end := bytes.Index(data[from:], []byte("endobj"))
	sRel := -1
	for probe := from; ; {
		rel := bytes.Index(data[probe:], []byte("stream"))
		if rel < 0 {
			break
		}
		idx := probe + rel
		probe = idx + len("stream")
		if idx > 0 && (isWhitespace(data[idx-1]) || data[idx-1] == '>') {
			sRel = idx - from
			break
		}
	}
	if sRel < 0 || (end >= 0 && end < sRel) {
		return from
	}
	es := bytes.Index(data[from+sRel:], []byte("endstream"))
	if es < 0 {
		return from
	}
	return from + sRel + es + len("endstream")
}
