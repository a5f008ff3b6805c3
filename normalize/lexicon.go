package normalize

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexiconYAML []byte

// Lexicon holds the correction tables and thresholds the normalizer works
// from. The zero value is unusable; start from DefaultLexicon or LoadLexicon.
type Lexicon struct {
	// Terms maps misread words to their intended spelling.
	Terms map[string]string `yaml:"terms"`
	// Carriers lists insurance carrier names for fuzzy token repair.
	Carriers []string `yaml:"carriers"`
	// ConfidenceFloor is the page confidence below which the pipeline
	// escalates to alternative preprocessing.
	ConfidenceFloor float64 `yaml:"confidence_floor"`
	// DateYearMin and DateYearMax bound the years accepted during date
	// validation.
	DateYearMin int `yaml:"date_year_min"`
	DateYearMax int `yaml:"date_year_max"`
}

// DefaultLexicon returns the built-in tables.
func DefaultLexicon() Lexicon {
	var lex Lexicon
	if err := yaml.Unmarshal(defaultLexiconYAML, &lex); err != nil {
		panic(fmt.Sprintf("embedded lexicon: %v", err))
	}
	return lex
}

// LoadLexicon reads a YAML lexicon from disk on top of the defaults, so a
// file only has to spell out what it changes. Term entries merge; carrier
// lists and scalars replace.
func LoadLexicon(path string) (Lexicon, error) {
	lex := DefaultLexicon()
	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("read lexicon: %w", err)
	}
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return Lexicon{}, fmt.Errorf("parse lexicon %s: %w", path, err)
	}
	return lex, nil
}
