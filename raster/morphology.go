package raster

import (
	"image"
	"image/color"
)

// Erode replaces each pixel with the minimum over a kw x kh rectangular
// window anchored at the window center.
func Erode(src *image.Gray, kw, kh int) *image.Gray {
	return rankFilter(src, kw, kh, false)
}

// Dilate replaces each pixel with the maximum over a kw x kh rectangular
// window anchored at the window center.
func Dilate(src *image.Gray, kw, kh int) *image.Gray {
	return rankFilter(src, kw, kh, true)
}

// Open erodes then dilates, removing speckle smaller than the kernel.
func Open(src *image.Gray, kw, kh int) *image.Gray {
	return Dilate(Erode(src, kw, kh), kw, kh)
}

// Close dilates then erodes, bridging gaps smaller than the kernel.
func Close(src *image.Gray, kw, kh int) *image.Gray {
	return Erode(Dilate(src, kw, kh), kw, kh)
}

func rankFilter(src *image.Gray, kw, kh int, maxRank bool) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || kw < 1 || kh < 1 {
		return Clone(src)
	}
	ax, ay := kw/2, kh/2
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var best uint8
			if maxRank {
				best = 0
			} else {
				best = 255
			}
			for dy := -ay; dy <= kh-1-ay; dy++ {
				sy := clampInt(y+dy, 0, h-1)
				for dx := -ax; dx <= kw-1-ax; dx++ {
					sx := clampInt(x+dx, 0, w-1)
					v := src.GrayAt(b.Min.X+sx, b.Min.Y+sy).Y
					if maxRank {
						if v > best {
							best = v
						}
					} else if v < best {
						best = v
					}
				}
			}
			dst.SetGray(x, y, color.Gray{Y: best})
		}
	}
	return dst
}
