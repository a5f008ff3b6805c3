package raster

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Rotate turns src by the given angle in degrees about the image center,
// keeping the original dimensions. Destination pixels are inverse-mapped
// and bilinearly sampled with edge replication, so border areas are filled
// with the nearest source content rather than a flat color.
func Rotate(src *image.Gray, degrees float64) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || degrees == 0 {
		return Clone(src)
	}
	rad := degrees * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	cx := float64(w-1) / 2
	cy := float64(h-1) / 2

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		dy := float64(y) - cy
		for x := 0; x < w; x++ {
			dx := float64(x) - cx
			sx := cos*dx + sin*dy + cx
			sy := -sin*dx + cos*dy + cy
			dst.SetGray(x, y, color.Gray{Y: bilinearAt(src, sx, sy)})
		}
	}
	return dst
}

// Upscale2x doubles both dimensions with Catmull-Rom interpolation.
func Upscale2x(src *image.Gray) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx()*2, b.Dy()*2))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// Resize scales src to the requested dimensions with Catmull-Rom
// interpolation.
func Resize(src *image.Gray, w, h int) *image.Gray {
	if w < 1 || h < 1 {
		return image.NewGray(image.Rect(0, 0, 0, 0))
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
