package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/wudi/ocrkit/pdf"
	"github.com/wudi/ocrkit/raster"
)

// renderWithPdftoppm shells out to poppler's rasterizer, which writes one
// numbered PNG per page into a scratch directory.
func renderWithPdftoppm(ctx context.Context, path string) ([]Page, error) {
	tool, err := exec.LookPath("pdftoppm")
	if err != nil {
		return nil, errors.New("pdftoppm not installed")
	}
	dir, err := os.MkdirTemp("", "ocrkit-render-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	prefix := filepath.Join(dir, "page")
	cmd := exec.CommandContext(ctx, tool, "-png", "-r", strconv.Itoa(renderDPI), path, prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm: %v: %s", err, bytes.TrimSpace(out))
	}
	names, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, errors.New("pdftoppm produced no pages")
	}
	sort.Slice(names, func(i, j int) bool { return pageNumber(names[i]) < pageNumber(names[j]) })

	pages := make([]Page, 0, len(names))
	for _, name := range names {
		img, err := decodeFile(name)
		if err != nil {
			return nil, err
		}
		pages = append(pages, Page{Index: pageNumber(name) - 1, Image: raster.ToGray(img), Source: path})
	}
	return pages, nil
}

// pageNumber pulls the numeric suffix out of "page-7.png". Lexical order
// would put page 10 before page 2.
func pageNumber(name string) int {
	base := strings.TrimSuffix(filepath.Base(name), ".png")
	idx := strings.LastIndexByte(base, '-')
	if idx < 0 {
		return 0
	}
	n, err := strconv.Atoi(base[idx+1:])
	if err != nil {
		return 0
	}
	return n
}

func decodeFile(name string) (image.Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(name), err)
	}
	return img, nil
}

// renderNative extracts each page's embedded scan with the built-in
// reader. Pages without a decodable image are skipped; a document that
// parses but yields no images returns an empty slice, which downstream
// reads as an empty document rather than a backend failure.
func renderNative(path string, data []byte) ([]Page, error) {
	doc, err := pdf.Read(data)
	if err != nil {
		return nil, err
	}
	docPages, err := doc.Pages()
	if err != nil {
		return nil, err
	}
	var pages []Page
	for i, p := range docPages {
		img, err := p.LargestImage()
		if err != nil {
			continue
		}
		pages = append(pages, Page{Index: i, Image: raster.ToGray(img), Source: path})
	}
	return pages, nil
}
