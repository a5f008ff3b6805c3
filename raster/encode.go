package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// EncodePNG serializes an image to PNG bytes, the interchange format the
// recognition engines accept.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
