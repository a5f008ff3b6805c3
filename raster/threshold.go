package raster

import (
	"image"
	"image/color"
)

// OtsuLevel computes the global threshold that maximizes between-class
// variance of the intensity histogram.
func OtsuLevel(src *image.Gray) uint8 {
	b := src.Bounds()
	var hist [256]int
	total := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			hist[src.GrayAt(x, y).Y]++
			total++
		}
	}
	if total == 0 {
		return 0
	}
	sum := 0.0
	for i, n := range hist {
		sum += float64(i) * float64(n)
	}
	sumB, wB := 0.0, 0
	best, level := -1.0, 0
	for t := 0; t < 256; t++ {
		wB += hist[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / float64(wB)
		mF := (sum - sumB) / float64(wF)
		between := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			level = t
		}
	}
	return uint8(level)
}

// Binarize thresholds to a two-level image: pixels above level become 255
// and the rest 0, or the reverse when inverted is set.
func Binarize(src *image.Gray, level uint8, inverted bool) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	hi, lo := uint8(255), uint8(0)
	if inverted {
		hi, lo = 0, 255
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			v := src.GrayAt(b.Min.X+x, b.Min.Y+y).Y
			out := lo
			if v > level {
				out = hi
			}
			dst.SetGray(x, y, color.Gray{Y: out})
		}
	}
	return dst
}

// BinarizeOtsu is Binarize at the Otsu level.
func BinarizeOtsu(src *image.Gray, inverted bool) *image.Gray {
	return Binarize(src, OtsuLevel(src), inverted)
}

// AdaptiveMethod selects how the local threshold surface is computed.
type AdaptiveMethod int

const (
	// AdaptiveMean thresholds against the plain mean of the neighborhood.
	AdaptiveMean AdaptiveMethod = iota
	// AdaptiveGaussian thresholds against a Gaussian-weighted mean.
	AdaptiveGaussian
)

// AdaptiveThreshold binarizes against a per-pixel threshold computed from
// the block x block neighborhood minus the constant c. Pixels above the
// local threshold become 255.
func AdaptiveThreshold(src *image.Gray, method AdaptiveMethod, block int, c float64) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return Clone(src)
	}
	if block < 3 {
		block = 3
	}
	if block%2 == 0 {
		block++
	}

	var local func(x, y int) float64
	switch method {
	case AdaptiveGaussian:
		// Sigma follows the usual ksize-derived heuristic so larger blocks
		// smooth over a wider area.
		sigma := 0.3*(float64(block-1)*0.5-1) + 0.8
		blurred := GaussianBlur(src, sigma)
		local = func(x, y int) float64 {
			return float64(blurred.GrayAt(x, y).Y)
		}
	default:
		integral := integralImage(src)
		radius := block / 2
		local = func(x, y int) float64 {
			x0 := clampInt(x-radius, 0, w-1)
			y0 := clampInt(y-radius, 0, h-1)
			x1 := clampInt(x+radius, 0, w-1)
			y1 := clampInt(y+radius, 0, h-1)
			area := (x1 - x0 + 1) * (y1 - y0 + 1)
			sum := integral[(y1+1)*(w+1)+x1+1] - integral[y0*(w+1)+x1+1] -
				integral[(y1+1)*(w+1)+x0] + integral[y0*(w+1)+x0]
			return float64(sum) / float64(area)
		}
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := float64(src.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			out := uint8(0)
			if v > local(x, y)-c {
				out = 255
			}
			dst.SetGray(x, y, color.Gray{Y: out})
		}
	}
	return dst
}

func integralImage(src *image.Gray) []int {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	integral := make([]int, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		rowSum := 0
		for x := 0; x < w; x++ {
			rowSum += int(src.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			integral[(y+1)*(w+1)+x+1] = integral[y*(w+1)+x+1] + rowSum
		}
	}
	return integral
}
