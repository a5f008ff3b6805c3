// Package pdf implements a minimal reader for classic PDF files: enough of
// the object model, cross-reference tables, and stream filters to walk the
// page tree and pull out embedded page images. It is the fallback rendering
// backend for scanner-produced documents when no external rasterizer is
// installed; it is not a general PDF library.
package pdf

import "fmt"

// Object is a parsed PDF value: nil (null), bool, int64, float64, []byte
// (string), Name, Array, Dict, *Stream, or Ref.
type Object any

// Name is a PDF name object, without the leading slash.
type Name string

// Array is a PDF array.
type Array []Object

// Dict is a PDF dictionary keyed by name.
type Dict map[Name]Object

// Ref identifies an indirect object.
type Ref struct {
	Num int
	Gen int
}

func (r Ref) String() string { return fmt.Sprintf("%d %d R", r.Num, r.Gen) }

// Stream pairs a dictionary with its raw, still-encoded payload.
type Stream struct {
	Header Dict
	Raw    []byte
}
