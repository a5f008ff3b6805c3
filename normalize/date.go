package normalize

import (
	"fmt"
	"regexp"
	"strconv"
)

var dateShape = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})`)

// correctDates validates the first date-shaped group in the text and
// rewrites it as zero-padded MM/DD/YYYY. Two-digit years expand around the
// current year: at or below the current year's last two digits means this
// century, above means the last one. Implausible dates leave the text
// untouched.
func (n *Normalizer) correctDates(text string) string {
	loc := dateShape.FindStringSubmatchIndex(text)
	if loc == nil {
		return text
	}
	month, _ := strconv.Atoi(text[loc[2]:loc[3]])
	day, _ := strconv.Atoi(text[loc[4]:loc[5]])
	yearText := text[loc[6]:loc[7]]
	year, _ := strconv.Atoi(yearText)
	if len(yearText) == 2 {
		if year <= n.now().Year()%100 {
			year += 2000
		} else {
			year += 1900
		}
	}
	if month < 1 || month > 12 || day < 1 || day > 31 ||
		year < n.lex.DateYearMin || year > n.lex.DateYearMax {
		return text
	}
	return text[:loc[0]] + fmt.Sprintf("%02d/%02d/%04d", month, day, year) + text[loc[1]:]
}
