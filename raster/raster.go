// Package raster provides the grayscale image primitives used by the
// preprocessing pipeline: contrast enhancement, filtering, binarization,
// morphology and geometric transforms. All operations are deterministic,
// allocate their result and never mutate the input.
package raster

import (
	"image"
	"image/color"
	"math"
)

// ToGray converts an arbitrary decoded image to 8-bit grayscale. An input
// that is already *image.Gray is returned as-is.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			dst.SetGray(x, y, c)
		}
	}
	return dst
}

// Clone returns a copy of src anchored at the origin.
func Clone(src *image.Gray) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dst.SetGray(x, y, src.GrayAt(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

// Crop copies the intersection of rect with src into a fresh origin-anchored
// image. An empty intersection yields a 0x0 image.
func Crop(src *image.Gray, rect image.Rectangle) *image.Gray {
	r := rect.Intersect(src.Bounds())
	dst := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			dst.SetGray(x, y, src.GrayAt(r.Min.X+x, r.Min.Y+y))
		}
	}
	return dst
}

// Invert flips every pixel value (v -> 255-v).
func Invert(src *image.Gray) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dst.SetGray(x, y, color.Gray{Y: 255 - src.GrayAt(b.Min.X+x, b.Min.Y+y).Y})
		}
	}
	return dst
}

// Normalize stretches the intensity range to the full [0,255] interval.
// A constant image is returned unchanged (no range to stretch).
func Normalize(src *image.Gray) *image.Gray {
	b := src.Bounds()
	lo, hi := uint8(255), uint8(0)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := src.GrayAt(x, y).Y
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if hi <= lo {
		return Clone(src)
	}
	scale := 255.0 / float64(hi-lo)
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			v := src.GrayAt(b.Min.X+x, b.Min.Y+y).Y
			dst.SetGray(x, y, color.Gray{Y: uint8(math.Round(float64(v-lo) * scale))})
		}
	}
	return dst
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampU8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// bilinearAt samples src at fractional coordinates with edge replication.
func bilinearAt(src *image.Gray, fx, fy float64) uint8 {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return 0
	}
	if fx < 0 {
		fx = 0
	}
	if fy < 0 {
		fy = 0
	}
	if fx > float64(w-1) {
		fx = float64(w - 1)
	}
	if fy > float64(h-1) {
		fy = float64(h - 1)
	}
	x0 := int(fx)
	y0 := int(fy)
	x1 := clampInt(x0+1, 0, w-1)
	y1 := clampInt(y0+1, 0, h-1)
	wx := fx - float64(x0)
	wy := fy - float64(y0)

	v00 := float64(src.GrayAt(b.Min.X+x0, b.Min.Y+y0).Y)
	v01 := float64(src.GrayAt(b.Min.X+x1, b.Min.Y+y0).Y)
	v10 := float64(src.GrayAt(b.Min.X+x0, b.Min.Y+y1).Y)
	v11 := float64(src.GrayAt(b.Min.X+x1, b.Min.Y+y1).Y)

	top := v00*(1-wx) + v01*wx
	bot := v10*(1-wx) + v11*wx
	return clampU8(top*(1-wy) + bot*wy)
}
