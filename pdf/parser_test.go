package pdf

import (
	"reflect"
	"testing"
)

func parseOne(t *testing.T, src string) Object {
	t.Helper()
	p := &parser{lx: &lexer{data: []byte(src)}}
	obj, err := p.object()
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return obj
}

func TestParseScalars(t *testing.T) {
	if v := parseOne(t, "true"); v != true {
		t.Fatalf("true = %v", v)
	}
	if v := parseOne(t, "null"); v != nil {
		t.Fatalf("null = %v", v)
	}
	if v := parseOne(t, "42"); v != int64(42) {
		t.Fatalf("42 = %v (%T)", v, v)
	}
	if v := parseOne(t, "-1.5"); v != -1.5 {
		t.Fatalf("-1.5 = %v", v)
	}
	if v := parseOne(t, "/Pages"); v != Name("Pages") {
		t.Fatalf("/Pages = %v", v)
	}
}

func TestParseRef(t *testing.T) {
	if v := parseOne(t, "12 0 R"); v != (Ref{Num: 12}) {
		t.Fatalf("ref = %v", v)
	}

	// Two integers not followed by R stay separate objects.
	p := &parser{lx: &lexer{data: []byte("12 7 obj")}}
	first, err := p.object()
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := p.object()
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first != int64(12) || second != int64(7) {
		t.Fatalf("got %v, %v, want 12, 7", first, second)
	}
}

func TestParseDict(t *testing.T) {
	v := parseOne(t, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Rotate 90 >>")
	d, ok := v.(Dict)
	if !ok {
		t.Fatalf("got %T, want Dict", v)
	}
	if d["Type"] != Name("Page") || d["Parent"] != (Ref{Num: 2}) || d["Rotate"] != int64(90) {
		t.Fatalf("dict = %v", d)
	}
	want := Array{int64(0), int64(0), int64(612), int64(792)}
	if !reflect.DeepEqual(d["MediaBox"], want) {
		t.Fatalf("MediaBox = %v", d["MediaBox"])
	}
}

func TestParseStream(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"declared length", "<< /Length 11 >>\nstream\nhello world\nendstream", "hello world"},
		{"wrong length", "<< /Length 3 >>\nstream\nhello world\nendstream", "hello world"},
		{"indirect length", "<< /Length 9 0 R >>\nstream\nhello\nendstream", "hello"},
	}
	for _, c := range cases {
		v := parseOne(t, c.src)
		s, ok := v.(*Stream)
		if !ok {
			t.Fatalf("%s: got %T, want *Stream", c.name, v)
		}
		if string(s.Raw) != c.want {
			t.Fatalf("%s: payload %q, want %q", c.name, s.Raw, c.want)
		}
	}
}

func TestParseDictWithoutStreamKeyword(t *testing.T) {
	p := &parser{lx: &lexer{data: []byte("<< /A 1 >> << /B 2 >>")}}
	first, err := p.object()
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, ok := first.(Dict); !ok {
		t.Fatalf("first = %T, want Dict", first)
	}
	second, err := p.object()
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	d, ok := second.(Dict)
	if !ok || d["B"] != int64(2) {
		t.Fatalf("second = %v", second)
	}
}
