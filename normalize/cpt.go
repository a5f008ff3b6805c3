package normalize

import (
	"regexp"
	"sort"
	"strings"

	"github.com/wudi/ocrkit/segment"
)

// Candidate procedure-code shapes, in priority order: dollar-sign misreads
// of a leading 5, then clean or homoglyph-damaged 5- and 4-digit groups.
// The glyph class lists the characters the engine confuses with digits.
var codePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$[0-9OolISBG]{4,5}`),
	regexp.MustCompile(`\$\d{4,5}`),
	regexp.MustCompile(`\b[0-9OolISBG]{5}\b`),
	regexp.MustCompile(`\b\d{5}\b`),
	regexp.MustCompile(`\b[0-9OolISBG]{4}\b`),
	regexp.MustCompile(`\b\d{4}\b`),
}

var (
	fiveDigits  = regexp.MustCompile(`\d{5}`)
	fourDigits  = regexp.MustCompile(`^\d{4}$`)
	glyphGroups = regexp.MustCompile(`[0-9OolISBG]{5}`)
)

var homoglyphs = strings.NewReplacer(
	"O", "0",
	"o", "0",
	"I", "1",
	"l", "1",
	"i", "1",
	"S", "5",
	"s", "5",
	"B", "8",
	"G", "6",
)

func cleanToken(token string) string {
	token = strings.ReplaceAll(token, "$", "5")
	token = strings.ReplaceAll(token, ",", "")
	token = strings.ReplaceAll(token, " ", "")
	return homoglyphs.Replace(token)
}

// correctCodes repairs procedure codes in procedure regions, or in any text
// that mentions a code label. Candidate spans are collected from all
// patterns, earliest start wins on overlap, and each surviving span is
// replaced by its cleaned form when that form holds a plausible code.
func (n *Normalizer) correctCodes(text string, kind segment.Kind) string {
	lower := strings.ToLower(text)
	labeled := strings.Contains(lower, "cpt") || strings.Contains(lower, "procedure")
	if kind != segment.KindProcedure && !labeled {
		return text
	}

	type span struct{ start, end int }
	var spans []span
	for _, re := range codePatterns {
		for _, m := range re.FindAllStringIndex(text, -1) {
			spans = append(spans, span{m[0], m[1]})
		}
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var sb strings.Builder
	prev := 0
	lastEnd := -1
	for _, s := range spans {
		if s.start < lastEnd {
			continue
		}
		lastEnd = s.end
		token := text[s.start:s.end]
		cleaned := cleanToken(token)
		replacement := token
		if fiveDigits.MatchString(cleaned) {
			replacement = cleaned
		} else if labeled && fourDigits.MatchString(cleaned) {
			// A 4-digit read under a code label is most often a 5-digit
			// code with a dropped leading zero.
			replacement = "0" + cleaned
		}
		sb.WriteString(text[prev:s.start])
		sb.WriteString(replacement)
		prev = s.end
	}
	sb.WriteString(text[prev:])

	return glyphGroups.ReplaceAllStringFunc(sb.String(), homoglyphs.Replace)
}
