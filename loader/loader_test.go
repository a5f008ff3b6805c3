package loader

import (
	"bytes"
	"compress/zlib"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"golang.org/x/image/tiff"
)

func testGray(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = byte(i * 5)
	}
	return img
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// buildPDF assembles a classic PDF with a valid xref table from numbered
// object bodies. Stream payloads may be embedded in the body strings.
func buildPDF(t *testing.T, bodies map[int]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	nums := make([]int, 0, len(bodies))
	for n := range bodies {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	offsets := make(map[int]int, len(bodies))
	for _, n := range nums {
		offsets[n] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", n, bodies[n])
	}
	xref := buf.Len()
	buf.WriteString("xref\n0 1\n0000000000 65535 f \n")
	for _, n := range nums {
		fmt.Fprintf(&buf, "%d 1\n%010d 00000 n \n", n, offsets[n])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		nums[len(nums)-1]+1, xref)
	return buf.Bytes()
}

func imageObject(t *testing.T, w, h int, pix []byte) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(pix); err != nil {
		t.Fatalf("compress: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("compress: %v", err)
	}
	return fmt.Sprintf("<< /Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /DeviceGray /BitsPerComponent 8 /Filter /FlateDecode /Length %d >>\nstream\n%s\nendstream",
		w, h, buf.Len(), buf.Bytes())
}

func TestLoadPNG(t *testing.T) {
	src := testGray(8, 5)
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encode: %v", err)
	}
	path := writeFile(t, "scan.png", buf.Bytes())
	pages, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(pages) != 1 || pages[0].Index != 0 || pages[0].Source != path {
		t.Fatalf("pages = %+v", pages)
	}
	got := pages[0].Image
	if got.Bounds() != src.Bounds() {
		t.Fatalf("bounds %v, want %v", got.Bounds(), src.Bounds())
	}
	for i := range src.Pix {
		if got.Pix[i] != src.Pix[i] {
			t.Fatalf("pixel %d = %d, want %d", i, got.Pix[i], src.Pix[i])
		}
	}
}

func TestLoadJPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, testGray(12, 9), nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	pages, err := Load(context.Background(), writeFile(t, "scan.jpg", buf.Bytes()))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(pages) != 1 || pages[0].Image.Bounds() != image.Rect(0, 0, 12, 9) {
		t.Fatalf("pages = %+v", pages)
	}
}

func TestLoadTIFF(t *testing.T) {
	src := testGray(7, 7)
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, src, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	pages, err := Load(context.Background(), writeFile(t, "scan.tif", buf.Bytes()))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(pages) != 1 || pages[0].Image.Bounds() != image.Rect(0, 0, 7, 7) {
		t.Fatalf("pages = %+v", pages)
	}
	if pages[0].Image.Pix[10] != src.Pix[10] {
		t.Fatalf("pixel 10 = %d, want %d", pages[0].Image.Pix[10], src.Pix[10])
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.png"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLoadUndecodable(t *testing.T) {
	path := writeFile(t, "junk.png", []byte("not an image"))
	if _, err := Load(context.Background(), path); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want decode failure", err)
	}
}

func TestRenderNative(t *testing.T) {
	pix := make([]byte, 6*4)
	for i := range pix {
		pix[i] = byte(10 + i)
	}
	data := buildPDF(t, map[int]string{
		1: "<< /Type /Catalog /Pages 2 0 R >>",
		2: "<< /Type /Pages /Kids [3 0 R 4 0 R] /Count 2 >>",
		3: "<< /Type /Page /Parent 2 0 R /Resources << /Font << >> >> >>",
		4: "<< /Type /Page /Parent 2 0 R /Resources << /XObject << /Im0 5 0 R >> >> >>",
		5: imageObject(t, 6, 4, pix),
	})
	pages, err := renderNative("referral.pdf", data)
	if err != nil {
		t.Fatalf("renderNative: %v", err)
	}
	if len(pages) != 1 || pages[0].Index != 1 || pages[0].Source != "referral.pdf" {
		t.Fatalf("pages = %+v", pages)
	}
	img := pages[0].Image
	if img.Bounds() != image.Rect(0, 0, 6, 4) {
		t.Fatalf("bounds %v", img.Bounds())
	}
	for i, v := range pix {
		if img.Pix[i] != v {
			t.Fatalf("pixel %d = %d, want %d", i, img.Pix[i], v)
		}
	}
}

func TestRenderNativeNoImages(t *testing.T) {
	data := buildPDF(t, map[int]string{
		1: "<< /Type /Catalog /Pages 2 0 R >>",
		2: "<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		3: "<< /Type /Page /Parent 2 0 R >>",
	})
	pages, err := renderNative("empty.pdf", data)
	if err != nil {
		t.Fatalf("image-free pdf must load as empty, got %v", err)
	}
	if len(pages) != 0 {
		t.Fatalf("pages = %+v, want none", pages)
	}
}

func TestLoadPDFDetectsBySniff(t *testing.T) {
	pix := make([]byte, 6*4)
	data := buildPDF(t, map[int]string{
		1: "<< /Type /Catalog /Pages 2 0 R >>",
		2: "<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		3: "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 72 72] /Resources << /XObject << /Im0 4 0 R >> >> >>",
		4: imageObject(t, 6, 4, pix),
	})
	// No .pdf extension; detection must fall through to the header sniff.
	// Rendering works through whichever backend the host provides.
	pages, err := Load(context.Background(), writeFile(t, "scan.dat", data))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(pages) != 1 || pages[0].Index != 0 {
		t.Fatalf("pages = %+v", pages)
	}
	if pages[0].Image.Bounds().Empty() {
		t.Fatal("empty page image")
	}
}
