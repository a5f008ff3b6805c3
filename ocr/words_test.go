package ocr

import (
	"image"
	"testing"
)

func word(text string, x, y, w, h int, conf float64) Word {
	return Word{Text: text, Box: image.Rect(x, y, x+w, y+h), Confidence: conf}
}

func TestTextFromWordsGroupsLines(t *testing.T) {
	words := []Word{
		word("Smith,", 80, 12, 60, 20, 90),
		word("Name:", 10, 10, 60, 20, 91),
		word("John", 150, 11, 40, 20, 88),
		word("DOB:", 10, 50, 45, 20, 85),
		word("03/15/1980", 65, 52, 95, 20, 80),
	}
	got := TextFromWords(words)
	want := "Name: Smith, John\nDOB: 03/15/1980"
	if got != want {
		t.Fatalf("TextFromWords = %q, want %q", got, want)
	}
}

func TestLinesFromWordsSplitsDisjointRows(t *testing.T) {
	words := []Word{
		word("top", 10, 0, 30, 10, 90),
		word("bottom", 10, 40, 50, 10, 90),
	}
	lines := LinesFromWords(words)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0][0].Text != "top" || lines[1][0].Text != "bottom" {
		t.Fatalf("line order wrong: %v", lines)
	}
}

func TestLinesFromWordsKeepsInputIntact(t *testing.T) {
	words := []Word{
		word("b", 50, 0, 10, 10, 90),
		word("a", 10, 2, 10, 10, 90),
	}
	LinesFromWords(words)
	if words[0].Text != "b" {
		t.Fatalf("input slice reordered: %v", words)
	}
}

func TestMeanConfidence(t *testing.T) {
	words := []Word{
		word("a", 0, 0, 5, 5, 90),
		word("b", 10, 0, 5, 5, -1),
		word("c", 20, 0, 5, 5, 60),
	}
	if got := MeanConfidence(words); got != 50 {
		t.Fatalf("MeanConfidence = %v, want 50", got)
	}
	if got := MeanConfidence(nil); got != 0 {
		t.Fatalf("MeanConfidence(nil) = %v, want 0", got)
	}
}
