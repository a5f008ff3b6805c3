package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"sort"
)

// ErrNoImage reports a page without a usable raster image.
var ErrNoImage = errors.New("pdf: page has no raster image")

const (
	maxImageDim    = 20000
	maxImagePixels = 64 << 20
)

// LargestImage decodes the biggest image XObject on the page. Scanned
// documents carry the page scan as one large image, so the biggest one is
// taken as the page raster.
func (p *Page) LargestImage() (image.Image, error) {
	xobjects := p.doc.dict(p.resources["XObject"])
	if xobjects == nil {
		return nil, ErrNoImage
	}
	names := make([]string, 0, len(xobjects))
	for name := range xobjects {
		names = append(names, string(name))
	}
	sort.Strings(names)
	var best *Stream
	var bestPixels int64
	for _, name := range names {
		s, ok := p.doc.Resolve(xobjects[Name(name)]).(*Stream)
		if !ok {
			continue
		}
		if sub, _ := p.doc.name(s.Header["Subtype"]); sub != "Image" {
			continue
		}
		w, _ := p.doc.integer(s.Header["Width"])
		h, _ := p.doc.integer(s.Header["Height"])
		if w <= 0 || h <= 0 || w > maxImageDim || h > maxImageDim || w*h > maxImagePixels {
			continue
		}
		if w*h > bestPixels {
			best, bestPixels = s, w*h
		}
	}
	if best == nil {
		return nil, ErrNoImage
	}
	return p.doc.decodeImage(best)
}

// decodeImage turns an image XObject into a Go image. Flate-compressed
// gray, bilevel and RGB rasters plus embedded JPEGs cover what scanner
// software writes.
func (d *Document) decodeImage(s *Stream) (image.Image, error) {
	data, residual, err := d.decodeStream(s)
	if err != nil {
		return nil, err
	}
	if residual == "DCTDecode" || residual == "DCT" {
		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("jpeg: %w", err)
		}
		return img, nil
	}
	if residual != "" {
		return nil, fmt.Errorf("unsupported image filter %s", residual)
	}
	w64, _ := d.integer(s.Header["Width"])
	h64, _ := d.integer(s.Header["Height"])
	w, h := int(w64), int(h64)
	bpc, ok := d.integer(s.Header["BitsPerComponent"])
	if !ok {
		bpc = 8
	}
	comps, err := d.colorComponents(s.Header["ColorSpace"])
	if err != nil {
		return nil, err
	}
	switch {
	case comps == 1 && bpc == 8:
		return grayImage(data, w, h)
	case comps == 1 && bpc == 1:
		return bilevelImage(data, w, h)
	case comps == 3 && bpc == 8:
		return rgbImage(data, w, h)
	}
	return nil, fmt.Errorf("unsupported image format: %d components at %d bits", comps, bpc)
}

// colorComponents maps a color space to its component count. Image masks
// carry no color space and count as gray.
func (d *Document) colorComponents(obj Object) (int, error) {
	switch v := d.Resolve(obj).(type) {
	case nil:
		return 1, nil
	case Name:
		switch v {
		case "DeviceGray", "CalGray", "G":
			return 1, nil
		case "DeviceRGB", "CalRGB", "RGB":
			return 3, nil
		}
		return 0, fmt.Errorf("unsupported color space %s", v)
	case Array:
		if len(v) >= 2 {
			if n, _ := d.name(v[0]); n == "ICCBased" {
				if s, ok := d.Resolve(v[1]).(*Stream); ok {
					if comps, ok := d.integer(s.Header["N"]); ok && (comps == 1 || comps == 3) {
						return int(comps), nil
					}
				}
			}
		}
	}
	return 0, errors.New("unsupported color space")
}

func grayImage(data []byte, w, h int) (image.Image, error) {
	if len(data) < w*h {
		return nil, errors.New("short gray image data")
	}
	img := image.NewGray(image.Rect(0, 0, w, h))
	copy(img.Pix, data)
	return img, nil
}

func bilevelImage(data []byte, w, h int) (image.Image, error) {
	rowBytes := (w + 7) / 8
	if len(data) < rowBytes*h {
		return nil, errors.New("short bilevel image data")
	}
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := data[y*rowBytes:]
		for x := 0; x < w; x++ {
			if row[x/8]&(0x80>>uint(x%8)) != 0 {
				img.Pix[y*img.Stride+x] = 0xFF
			}
		}
	}
	return img, nil
}

func rgbImage(data []byte, w, h int) (image.Image, error) {
	if len(data) < w*h*3 {
		return nil, errors.New("short rgb image data")
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		img.Pix[i*4+0] = data[i*3+0]
		img.Pix[i*4+1] = data[i*3+1]
		img.Pix[i*4+2] = data[i*3+2]
		img.Pix[i*4+3] = 0xFF
	}
	return img, nil
}
