package raster

import (
	"image"
	"image/color"
	"math"
)

func gaussianKernel(sigma float64) []float64 {
	if sigma <= 0 {
		sigma = 0.5
	}
	radius := int(math.Ceil(3 * sigma))
	k := make([]float64, 2*radius+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		k[i+radius] = v
		sum += v
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// GaussianBlur smooths with a separable Gaussian kernel of the given sigma.
// Borders are sampled with edge replication.
func GaussianBlur(src *image.Gray, sigma float64) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return Clone(src)
	}
	k := gaussianKernel(sigma)
	radius := len(k) / 2

	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			acc := 0.0
			for i := -radius; i <= radius; i++ {
				sx := clampInt(x+i, 0, w-1)
				acc += k[i+radius] * float64(src.GrayAt(b.Min.X+sx, b.Min.Y+y).Y)
			}
			tmp[y*w+x] = acc
		}
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			acc := 0.0
			for i := -radius; i <= radius; i++ {
				sy := clampInt(y+i, 0, h-1)
				acc += k[i+radius] * tmp[sy*w+x]
			}
			dst.SetGray(x, y, color.Gray{Y: clampU8(acc)})
		}
	}
	return dst
}

// Median replaces each pixel with the median of its (2r+1)x(2r+1) window.
func Median(src *image.Gray, radius int) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || radius < 1 {
		return Clone(src)
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var hist [256]int
			count := 0
			for dy := -radius; dy <= radius; dy++ {
				sy := clampInt(y+dy, 0, h-1)
				for dx := -radius; dx <= radius; dx++ {
					sx := clampInt(x+dx, 0, w-1)
					hist[src.GrayAt(b.Min.X+sx, b.Min.Y+sy).Y]++
					count++
				}
			}
			target := count / 2
			seen := 0
			med := 0
			for v := 0; v < 256; v++ {
				seen += hist[v]
				if seen > target {
					med = v
					break
				}
			}
			dst.SetGray(x, y, color.Gray{Y: uint8(med)})
		}
	}
	return dst
}

// Denoise removes impulse noise with a median window whose size scales with
// the requested strength (h of 10 is the standard document setting; larger
// values widen the window for heavily degraded scans).
func Denoise(src *image.Gray, strength float64) *image.Gray {
	radius := 1
	if strength > 10 {
		radius = 2
	}
	return Median(src, radius)
}

// Bilateral applies an edge-preserving bilateral filter with the given
// window diameter and color/space sigmas.
func Bilateral(src *image.Gray, diameter int, sigmaColor, sigmaSpace float64) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || diameter < 3 {
		return Clone(src)
	}
	radius := diameter / 2
	if sigmaColor <= 0 {
		sigmaColor = 1
	}
	if sigmaSpace <= 0 {
		sigmaSpace = 1
	}

	var colorW [256]float64
	for d := 0; d < 256; d++ {
		colorW[d] = math.Exp(-float64(d*d) / (2 * sigmaColor * sigmaColor))
	}
	size := 2*radius + 1
	spaceW := make([]float64, size*size)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d2 := float64(dx*dx + dy*dy)
			spaceW[(dy+radius)*size+(dx+radius)] = math.Exp(-d2 / (2 * sigmaSpace * sigmaSpace))
		}
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			center := int(src.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			num, den := 0.0, 0.0
			for dy := -radius; dy <= radius; dy++ {
				sy := clampInt(y+dy, 0, h-1)
				for dx := -radius; dx <= radius; dx++ {
					sx := clampInt(x+dx, 0, w-1)
					v := int(src.GrayAt(b.Min.X+sx, b.Min.Y+sy).Y)
					diff := v - center
					if diff < 0 {
						diff = -diff
					}
					wgt := spaceW[(dy+radius)*size+(dx+radius)] * colorW[diff]
					num += wgt * float64(v)
					den += wgt
				}
			}
			dst.SetGray(x, y, color.Gray{Y: clampU8(num / den)})
		}
	}
	return dst
}

// Unsharp sharpens by subtracting a Gaussian blur: out = amount*src -
// (amount-1)*blur, clamped. amount of 2.0 doubles edge contrast.
func Unsharp(src *image.Gray, sigma, amount float64) *image.Gray {
	blur := GaussianBlur(src, sigma)
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := float64(src.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			bl := float64(blur.GrayAt(x, y).Y)
			dst.SetGray(x, y, color.Gray{Y: clampU8(amount*v - (amount-1)*bl)})
		}
	}
	return dst
}
