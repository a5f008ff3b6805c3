package ocr

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Vocabulary the recognizer is biased toward out of the box: the insurance
// carriers seen on referral forms plus the field labels that surround the
// values worth extracting.
var defaultWords = []string{
	"Aetna",
	"BCBS",
	"Blue Cross Blue Shield",
	"Cigna",
	"UHC",
	"United Healthcare",
	"Humana",
	"Medicare",
	"Medicaid",
	"Anthem",
	"Kaiser",
	"Wellcare",
	"CPT",
	"MRN",
	"DOB",
	"Procedure",
	"Referring",
	"Physician",
	"Authorization",
}

var defaultPatterns = []string{
	`\d{5}`,
	`\d{2}/\d{2}/\d{2,4}`,
}

// BiasFiles materializes word and pattern lists as temporary files for
// engines that only accept vocabulary hints from disk. Each instance gets
// uniquely named files so concurrent pipelines never collide.
type BiasFiles struct {
	WordsPath    string
	PatternsPath string
}

// NewBiasFiles writes the given entries, augmented with the built-in
// defaults, to fresh temp files. Call Close to remove them.
func NewBiasFiles(words, patterns []string) (*BiasFiles, error) {
	id := uuid.NewString()
	wordsPath := filepath.Join(os.TempDir(), "ocrkit-words-"+id+".txt")
	patternsPath := filepath.Join(os.TempDir(), "ocrkit-patterns-"+id+".txt")

	if err := writeList(wordsPath, merge(words, defaultWords)); err != nil {
		return nil, fmt.Errorf("write user words: %w", err)
	}
	if err := writeList(patternsPath, merge(patterns, defaultPatterns)); err != nil {
		os.Remove(wordsPath)
		return nil, fmt.Errorf("write user patterns: %w", err)
	}
	return &BiasFiles{WordsPath: wordsPath, PatternsPath: patternsPath}, nil
}

// Close removes the materialized files.
func (b *BiasFiles) Close() error {
	var first error
	for _, path := range []string{b.WordsPath, b.PatternsPath} {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) && first == nil {
			first = err
		}
	}
	return first
}

// merge keeps caller entries first and appends defaults not already listed.
func merge(provided, defaults []string) []string {
	out := make([]string, 0, len(provided)+len(defaults))
	seen := make(map[string]bool, len(provided)+len(defaults))
	for _, entry := range provided {
		entry = strings.TrimSpace(entry)
		if entry == "" || seen[entry] {
			continue
		}
		seen[entry] = true
		out = append(out, entry)
	}
	for _, entry := range defaults {
		if seen[entry] {
			continue
		}
		seen[entry] = true
		out = append(out, entry)
	}
	return out
}

func writeList(path string, entries []string) error {
	return os.WriteFile(path, []byte(strings.Join(entries, "\n")+"\n"), 0o600)
}
