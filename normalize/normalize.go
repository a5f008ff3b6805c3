// Package normalize repairs recognition output: misread medical terms,
// mangled insurance carrier names, homoglyph-damaged procedure codes, and
// malformed dates. Corrections are deterministic string transforms driven
// by a lexicon, so behavior is adjustable without code changes.
package normalize

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/wudi/ocrkit/segment"
)

// carrierCutoff is the minimum similarity ratio for snapping a token to a
// carrier name.
const carrierCutoff = 0.6

type termRule struct {
	re          *regexp.Regexp
	replacement string
}

// Normalizer applies lexicon-driven corrections to transcripts.
type Normalizer struct {
	lex   Lexicon
	terms []termRule
	now   func() time.Time
}

// New compiles a normalizer from the given lexicon.
func New(lex Lexicon) *Normalizer {
	keys := make([]string, 0, len(lex.Terms))
	for k := range lex.Terms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	terms := make([]termRule, 0, len(keys))
	for _, k := range keys {
		terms = append(terms, termRule{
			re:          regexp.MustCompile(`(?i)` + regexp.QuoteMeta(k)),
			replacement: lex.Terms[k],
		})
	}
	return &Normalizer{lex: lex, terms: terms, now: time.Now}
}

// Lexicon returns the tables the normalizer was built from.
func (n *Normalizer) Lexicon() Lexicon { return n.lex }

// Correct runs the correction passes in order: term repair, carrier repair
// for insurance regions, procedure-code repair, then date validation.
func (n *Normalizer) Correct(text string, kind segment.Kind) string {
	if text == "" {
		return text
	}
	out := n.correctTerms(text)
	if kind == segment.KindInsurance {
		out = n.correctCarriers(out)
	}
	out = n.correctCodes(out, kind)
	return n.correctDates(out)
}

func (n *Normalizer) correctTerms(text string) string {
	for _, rule := range n.terms {
		text = rule.re.ReplaceAllString(text, rule.replacement)
	}
	return text
}

// correctCarriers snaps each whitespace token to the closest carrier name
// when the similarity clears the cutoff. Tokens below it pass through.
func (n *Normalizer) correctCarriers(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		fields := strings.Fields(line)
		for j, field := range fields {
			if carrier, ok := n.closestCarrier(field); ok {
				fields[j] = carrier
			}
		}
		lines[i] = strings.Join(fields, " ")
	}
	return strings.Join(lines, "\n")
}

func (n *Normalizer) closestCarrier(token string) (string, bool) {
	best := ""
	bestRatio := 0.0
	for _, carrier := range n.lex.Carriers {
		if r := ratio(token, carrier); r > bestRatio {
			best, bestRatio = carrier, r
		}
	}
	if bestRatio >= carrierCutoff {
		return best, true
	}
	return "", false
}

// ratio measures string similarity on [0,1] as twice the longest common
// subsequence over the combined length, which tracks the classic
// sequence-matcher ratio closely for short tokens.
func ratio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return 2 * float64(prev[len(rb)]) / float64(len(ra)+len(rb))
}
