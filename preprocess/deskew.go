package preprocess

import (
	"image"
	"math"
	"sort"

	"github.com/wudi/ocrkit/raster"
)

// minSkewDegrees is the angle below which a page counts as straight.
// Rotating for less than half a degree costs more legibility through
// resampling than it recovers.
const minSkewDegrees = 0.5

// EstimateSkew measures the dominant text angle in degrees, normalized into
// (-45, 45]. The page is binarized at the Otsu level, the foreground pixel
// set is reduced to its convex hull, and the minimum-area bounding
// rectangle's orientation is taken as the skew. A page with no foreground
// reports zero.
func EstimateSkew(src *image.Gray) float64 {
	bin := raster.BinarizeOtsu(src, true)
	pts := foregroundExtremes(bin)
	if len(pts) < 3 {
		return 0
	}
	hull := convexHull(pts)
	if len(hull) < 3 {
		return 0
	}
	angle := minAreaRectAngle(hull)
	angle = math.Mod(angle, 90)
	if angle > 45 {
		angle -= 90
	}
	if angle <= -45 {
		angle += 90
	}
	return angle
}

// Deskew rotates src back to horizontal when the estimated skew magnitude
// reaches half a degree. Below that the input is returned untouched so that
// repeated calls are idempotent.
func Deskew(src *image.Gray) (*image.Gray, bool) {
	angle := EstimateSkew(src)
	if math.Abs(angle) < minSkewDegrees {
		return src, false
	}
	return raster.Rotate(src, -angle), true
}

// foregroundExtremes returns, per row, the leftmost and rightmost foreground
// pixels. The convex hull of a pixel set equals the hull of its row
// extremes, so this bounds hull input at two points per row regardless of
// how dark the page is.
func foregroundExtremes(bin *image.Gray) []image.Point {
	b := bin.Bounds()
	pts := make([]image.Point, 0, 2*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		first, last := -1, -1
		for x := b.Min.X; x < b.Max.X; x++ {
			if bin.GrayAt(x, y).Y == 255 {
				if first < 0 {
					first = x
				}
				last = x
			}
		}
		if first < 0 {
			continue
		}
		pts = append(pts, image.Point{X: first, Y: y})
		if last != first {
			pts = append(pts, image.Point{X: last, Y: y})
		}
	}
	return pts
}

// convexHull computes the hull with Andrew's monotone chain, returned in
// counter-clockwise order without the repeated first point.
func convexHull(pts []image.Point) []image.Point {
	if len(pts) < 3 {
		return pts
	}
	sorted := append([]image.Point(nil), pts...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	cross := func(o, a, b image.Point) int {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	var lower []image.Point
	for _, p := range sorted {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	var upper []image.Point
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// minAreaRectAngle enumerates hull edges, fits the bounding rectangle
// aligned to each edge, and returns the edge angle of the smallest one.
func minAreaRectAngle(hull []image.Point) float64 {
	bestArea := math.MaxFloat64
	bestAngle := 0.0
	n := len(hull)
	for i := 0; i < n; i++ {
		p := hull[i]
		q := hull[(i+1)%n]
		ex := float64(q.X - p.X)
		ey := float64(q.Y - p.Y)
		length := math.Hypot(ex, ey)
		if length == 0 {
			continue
		}
		ux, uy := ex/length, ey/length
		minU, maxU := math.MaxFloat64, -math.MaxFloat64
		minV, maxV := math.MaxFloat64, -math.MaxFloat64
		for _, r := range hull {
			rx := float64(r.X - p.X)
			ry := float64(r.Y - p.Y)
			u := rx*ux + ry*uy
			v := -rx*uy + ry*ux
			minU = math.Min(minU, u)
			maxU = math.Max(maxU, u)
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
		}
		area := (maxU - minU) * (maxV - minV)
		if area < bestArea {
			bestArea = area
			bestAngle = math.Atan2(ey, ex) * 180 / math.Pi
		}
	}
	return bestAngle
}
