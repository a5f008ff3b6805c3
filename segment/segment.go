// Package segment locates candidate form regions on a preprocessed page and
// classifies them by position and a cheap single-line probe. Detection is
// purely geometric; the probe is supplied by the caller so the package stays
// independent of any OCR engine.
package segment

import (
	"image"
	"sort"

	"github.com/wudi/ocrkit/raster"
)

// Size gates for candidate regions, in pixels of the processed page.
// Anything smaller is noise; anything spanning most of the page is layout
// furniture rather than a field.
const (
	minRegionWidth   = 50
	minRegionHeight  = 20
	maxWidthFraction = 0.8
	maxHeightFrac    = 0.5
)

// ProbeFunc transcribes a candidate region just well enough to classify it.
// Errors are treated as an empty transcript, not failures.
type ProbeFunc func(region *image.Gray) (string, error)

// Region is a classified rectangular area of a page. Box coordinates are
// relative to the page origin.
type Region struct {
	Kind           Kind
	Box            image.Rectangle
	KindConfidence float64
}

// Detect finds form regions on a processed page. Dark pixels are grouped
// into connected components, components nested inside a larger one are
// folded into it, and the survivors of the size gates are classified.
// Regions come back ordered top to bottom, then left to right, with a
// synthetic full-page region appended last so callers always have at least
// one transcription target.
func Detect(page *image.Gray, probe ProbeFunc) []Region {
	b := page.Bounds()
	w, h := b.Dx(), b.Dy()

	bin := raster.BinarizeOtsu(page, true)
	boxes := outerBoxes(bin)

	regions := make([]Region, 0, len(boxes)+1)
	for _, box := range boxes {
		bw, bh := box.Dx(), box.Dy()
		if bw < minRegionWidth || bh < minRegionHeight {
			continue
		}
		if float64(bw) > maxWidthFraction*float64(w) || float64(bh) > maxHeightFrac*float64(h) {
			continue
		}
		probeText := ""
		if probe != nil && float64(box.Min.Y) < 0.6*float64(h) {
			if txt, err := probe(raster.Crop(page, box.Add(b.Min))); err == nil {
				probeText = txt
			}
		}
		kind, conf := Classify(probeText, box, h)
		regions = append(regions, Region{Kind: kind, Box: box, KindConfidence: conf})
	}

	sort.SliceStable(regions, func(i, j int) bool {
		if regions[i].Box.Min.Y != regions[j].Box.Min.Y {
			return regions[i].Box.Min.Y < regions[j].Box.Min.Y
		}
		return regions[i].Box.Min.X < regions[j].Box.Min.X
	})

	regions = append(regions, Region{
		Kind:           KindFullDocument,
		Box:            image.Rect(0, 0, w, h),
		KindConfidence: 1,
	})
	return regions
}

// outerBoxes returns the bounding boxes of 8-connected foreground
// components, with boxes fully contained in a larger box removed. The
// containment pass collapses a form field's printed border and its inner
// text into one region.
func outerBoxes(bin *image.Gray) []image.Rectangle {
	b := bin.Bounds()
	w, h := b.Dx(), b.Dy()
	visited := make([]bool, w*h)
	var boxes []image.Rectangle
	var stack []image.Point

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if visited[y*w+x] || bin.GrayAt(b.Min.X+x, b.Min.Y+y).Y == 0 {
				continue
			}
			visited[y*w+x] = true
			stack = append(stack[:0], image.Point{X: x, Y: y})
			minX, minY, maxX, maxY := x, y, x, y
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if p.X < minX {
					minX = p.X
				}
				if p.X > maxX {
					maxX = p.X
				}
				if p.Y < minY {
					minY = p.Y
				}
				if p.Y > maxY {
					maxY = p.Y
				}
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := p.X+dx, p.Y+dy
						if nx < 0 || ny < 0 || nx >= w || ny >= h {
							continue
						}
						if visited[ny*w+nx] || bin.GrayAt(b.Min.X+nx, b.Min.Y+ny).Y == 0 {
							continue
						}
						visited[ny*w+nx] = true
						stack = append(stack, image.Point{X: nx, Y: ny})
					}
				}
			}
			boxes = append(boxes, image.Rect(minX, minY, maxX+1, maxY+1))
		}
	}
	return dropNested(boxes)
}

func dropNested(boxes []image.Rectangle) []image.Rectangle {
	sort.SliceStable(boxes, func(i, j int) bool {
		return area(boxes[i]) > area(boxes[j])
	})
	kept := boxes[:0]
	for _, box := range boxes {
		nested := false
		for _, outer := range kept {
			if box != outer && box.In(outer) {
				nested = true
				break
			}
		}
		if !nested {
			kept = append(kept, box)
		}
	}
	return kept
}

func area(r image.Rectangle) int {
	return r.Dx() * r.Dy()
}
