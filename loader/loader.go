// Package loader turns input files into grayscale page images. PNG, JPEG
// and TIFF files load as a single page. PDFs are rasterized with pdftoppm
// when it is installed, falling back to pulling the embedded page scans
// out of the file directly.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"

	"github.com/wudi/ocrkit/raster"
)

// Page is one input page in document order. Index is the zero-based page
// number within the source file named by Source.
type Page struct {
	Index  int
	Image  *image.Gray
	Source string
}

var (
	// ErrNotFound reports a missing input file.
	ErrNotFound = errors.New("loader: input file not found")

	// ErrNoBackend reports that no PDF rendering backend could handle
	// the file.
	ErrNoBackend = errors.New("loader: no pdf rendering backend available")
)

const renderDPI = 400

// Load reads an input document and returns its pages as grayscale images.
func Load(ctx context.Context, path string) ([]Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	if isPDF(path, data) {
		return loadPDF(ctx, path, data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return []Page{{Index: 0, Image: raster.ToGray(img), Source: path}}, nil
}

func isPDF(path string, data []byte) bool {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return true
	}
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

func loadPDF(ctx context.Context, path string, data []byte) ([]Page, error) {
	pages, toolErr := renderWithPdftoppm(ctx, path)
	if toolErr == nil {
		return pages, nil
	}
	pages, nativeErr := renderNative(path, data)
	if nativeErr == nil {
		return pages, nil
	}
	return nil, fmt.Errorf("%w: pdftoppm: %v; native: %v", ErrNoBackend, toolErr, nativeErr)
}
