package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
)

// ErrNotPDF reports input that does not start with a %PDF header.
var ErrNotPDF = errors.New("pdf: missing %PDF header")

const (
	maxResolveDepth = 32
	maxPageDepth    = 64
	maxPages        = 2048
)

// Document is a parsed PDF file. Indirect objects are decoded lazily and
// cached by object number.
type Document struct {
	data    []byte
	offsets map[int]int64
	cache   map[int]Object
	trailer Dict
}

// Read parses the cross-reference information of a PDF held in memory.
// Files with damaged or unsupported cross references are retried with a
// full scan for object headers.
func Read(data []byte) (*Document, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, ErrNotPDF
	}
	offsets, trailer, err := readXref(data)
	if err != nil || len(offsets) == 0 {
		offsets, trailer = rebuild(data)
		if len(offsets) == 0 {
			return nil, errors.New("pdf: no objects found")
		}
	}
	doc := &Document{data: data, offsets: offsets, cache: map[int]Object{}, trailer: trailer}
	if doc.trailer == nil {
		doc.trailer = Dict{}
	}
	if _, ok := doc.trailer["Root"]; !ok {
		ref, ok := doc.findCatalog()
		if !ok {
			return nil, errors.New("pdf: document catalog not found")
		}
		doc.trailer["Root"] = ref
	}
	return doc, nil
}

func (d *Document) object(num int) (Object, error) {
	if obj, ok := d.cache[num]; ok {
		return obj, nil
	}
	off, ok := d.offsets[num]
	if !ok {
		return nil, fmt.Errorf("object %d not in xref", num)
	}
	if off < 0 || off >= int64(len(d.data)) {
		return nil, fmt.Errorf("object %d offset out of range", num)
	}
	lx := &lexer{data: d.data, pos: int(off)}
	numTok, err := lx.next()
	if err != nil || numTok.kind != tokNumber {
		return nil, fmt.Errorf("object %d: bad header", num)
	}
	genTok, err := lx.next()
	if err != nil || genTok.kind != tokNumber {
		return nil, fmt.Errorf("object %d: bad header", num)
	}
	kw, err := lx.next()
	if err != nil || kw.kind != tokKeyword || kw.text != "obj" {
		return nil, fmt.Errorf("object %d: bad header", num)
	}
	p := &parser{lx: lx}
	obj, err := p.object()
	if err != nil {
		return nil, fmt.Errorf("object %d: %w", num, err)
	}
	d.cache[num] = obj
	return obj, nil
}

// Resolve follows reference chains until a direct object remains. Broken
// references resolve to nil.
func (d *Document) Resolve(obj Object) Object {
	for depth := 0; depth < maxResolveDepth; depth++ {
		ref, ok := obj.(Ref)
		if !ok {
			return obj
		}
		next, err := d.object(ref.Num)
		if err != nil {
			return nil
		}
		obj = next
	}
	return nil
}

func (d *Document) dict(obj Object) Dict {
	dict, _ := d.Resolve(obj).(Dict)
	return dict
}

func (d *Document) name(obj Object) (Name, bool) {
	n, ok := d.Resolve(obj).(Name)
	return n, ok
}

func (d *Document) integer(obj Object) (int64, bool) {
	switch v := d.Resolve(obj).(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	}
	return 0, false
}

// Catalog returns the document catalog dictionary.
func (d *Document) Catalog() Dict {
	return d.dict(d.trailer["Root"])
}

// findCatalog scans every known object for a /Type /Catalog dictionary.
// Used when no trailer names the document root.
func (d *Document) findCatalog() (Ref, bool) {
	nums := make([]int, 0, len(d.offsets))
	for num := range d.offsets {
		nums = append(nums, num)
	}
	sort.Ints(nums)
	for _, num := range nums {
		obj, err := d.object(num)
		if err != nil {
			continue
		}
		dict, ok := obj.(Dict)
		if !ok {
			continue
		}
		if t, _ := dict["Type"].(Name); t == "Catalog" {
			return Ref{Num: num}, true
		}
	}
	return Ref{}, false
}

// Page is one leaf of the page tree with its inherited resources applied.
type Page struct {
	doc       *Document
	dict      Dict
	resources Dict
}

// Pages walks the page tree and returns the leaves in document order.
func (d *Document) Pages() ([]*Page, error) {
	root := d.dict(d.Catalog()["Pages"])
	if root == nil {
		return nil, errors.New("pdf: page tree missing")
	}
	var pages []*Page
	var walk func(node Dict, inherited Dict, depth int) error
	walk = func(node Dict, inherited Dict, depth int) error {
		if depth > maxPageDepth {
			return errors.New("pdf: page tree too deep")
		}
		if len(pages) >= maxPages {
			return nil
		}
		res := inherited
		if own := d.dict(node["Resources"]); own != nil {
			res = own
		}
		t, _ := d.name(node["Type"])
		kids, hasKids := d.Resolve(node["Kids"]).(Array)
		if t == "Page" || (!hasKids && t != "Pages") {
			pages = append(pages, &Page{doc: d, dict: node, resources: res})
			return nil
		}
		for _, kid := range kids {
			kd := d.dict(kid)
			if kd == nil {
				continue
			}
			if err := walk(kd, res, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root, nil, 0); err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, errors.New("pdf: no pages")
	}
	return pages, nil
}
