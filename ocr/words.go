package ocr

import (
	"image"
	"sort"
	"strings"
)

// LinesFromWords groups word boxes into reading lines. Two boxes share a
// line when their vertical overlap covers at least half the shorter box.
// Lines come back top to bottom with their words ordered left to right.
func LinesFromWords(words []Word) [][]Word {
	if len(words) == 0 {
		return nil
	}
	sorted := append([]Word(nil), words...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Box.Min.Y < sorted[j].Box.Min.Y
	})

	var lines [][]Word
	var lineBox image.Rectangle
	for _, w := range sorted {
		if len(lines) > 0 && sharesLine(lineBox, w.Box) {
			lines[len(lines)-1] = append(lines[len(lines)-1], w)
			lineBox = lineBox.Union(w.Box)
			continue
		}
		lines = append(lines, []Word{w})
		lineBox = w.Box
	}
	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].Box.Min.X < line[j].Box.Min.X
		})
	}
	return lines
}

// TextFromWords rebuilds a linearized transcript from word boxes: words on
// a line joined by single spaces, lines joined by newlines.
func TextFromWords(words []Word) string {
	lines := LinesFromWords(words)
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		texts := make([]string, 0, len(line))
		for _, w := range line {
			texts = append(texts, w.Text)
		}
		parts = append(parts, strings.Join(texts, " "))
	}
	return strings.Join(parts, "\n")
}

// MeanConfidence averages per-word confidence on the engine's 0-100 scale.
// Negative confidences (the "no estimate" marker) count as zero, and an
// empty word list scores zero.
func MeanConfidence(words []Word) float64 {
	if len(words) == 0 {
		return 0
	}
	var sum float64
	for _, w := range words {
		if w.Confidence > 0 {
			sum += w.Confidence
		}
	}
	return sum / float64(len(words))
}

func sharesLine(a, b image.Rectangle) bool {
	top := a.Min.Y
	if b.Min.Y > top {
		top = b.Min.Y
	}
	bottom := a.Max.Y
	if b.Max.Y < bottom {
		bottom = b.Max.Y
	}
	overlap := bottom - top
	if overlap <= 0 {
		return false
	}
	short := a.Dy()
	if b.Dy() < short {
		short = b.Dy()
	}
	return overlap*2 >= short
}
