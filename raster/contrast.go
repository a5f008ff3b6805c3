package raster

import (
	"image"
	"image/color"
	"math"
)

// CLAHE applies contrast-limited adaptive histogram equalization over a
// tiles x tiles grid. Each tile's histogram is clipped at clipLimit times
// the uniform bucket height, the excess redistributed evenly, and pixel
// values are remapped by bilinear interpolation between the four nearest
// tile mappings.
func CLAHE(src *image.Gray, clipLimit float64, tiles int) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || tiles < 1 {
		return Clone(src)
	}
	if tiles > w {
		tiles = w
	}
	if tiles > h {
		tiles = h
	}
	tw := (w + tiles - 1) / tiles
	th := (h + tiles - 1) / tiles

	luts := make([][256]uint8, tiles*tiles)
	for ty := 0; ty < tiles; ty++ {
		for tx := 0; tx < tiles; tx++ {
			x0, y0 := tx*tw, ty*th
			x1, y1 := clampInt(x0+tw, 0, w), clampInt(y0+th, 0, h)
			var hist [256]int
			area := 0
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					hist[src.GrayAt(b.Min.X+x, b.Min.Y+y).Y]++
					area++
				}
			}
			if area == 0 {
				continue
			}
			limit := int(clipLimit * float64(area) / 256.0)
			if limit < 1 {
				limit = 1
			}
			excess := 0
			for i := range hist {
				if hist[i] > limit {
					excess += hist[i] - limit
					hist[i] = limit
				}
			}
			share := excess / 256
			rem := excess % 256
			for i := range hist {
				hist[i] += share
				if i < rem {
					hist[i]++
				}
			}
			cum := 0
			scale := 255.0 / float64(area)
			lut := &luts[ty*tiles+tx]
			for i := 0; i < 256; i++ {
				cum += hist[i]
				lut[i] = clampU8(float64(cum) * scale)
			}
		}
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		gy := (float64(y)+0.5)/float64(th) - 0.5
		ty0, ty1, wy := tileSpan(gy, tiles)
		for x := 0; x < w; x++ {
			gx := (float64(x)+0.5)/float64(tw) - 0.5
			tx0, tx1, wx := tileSpan(gx, tiles)
			v := src.GrayAt(b.Min.X+x, b.Min.Y+y).Y
			l00 := float64(luts[ty0*tiles+tx0][v])
			l01 := float64(luts[ty0*tiles+tx1][v])
			l10 := float64(luts[ty1*tiles+tx0][v])
			l11 := float64(luts[ty1*tiles+tx1][v])
			top := l00*(1-wx) + l01*wx
			bot := l10*(1-wx) + l11*wx
			dst.SetGray(x, y, color.Gray{Y: clampU8(top*(1-wy) + bot*wy)})
		}
	}
	return dst
}

// tileSpan maps a tile-grid coordinate to the pair of neighboring tile
// indexes and the interpolation weight between them.
func tileSpan(g float64, tiles int) (int, int, float64) {
	if g <= 0 {
		return 0, 0, 0
	}
	if g >= float64(tiles-1) {
		return tiles - 1, tiles - 1, 0
	}
	i := int(math.Floor(g))
	return i, i + 1, g - float64(i)
}
