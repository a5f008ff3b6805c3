package segment

import (
	"image"
	"strings"
)

// Kind is the closed set of region classifications. Downstream
// transcription configuration is a table lookup on this type, never on
// free-form strings.
type Kind int

const (
	KindUnknown Kind = iota
	KindHeader
	KindPatientName
	KindInsurance
	KindProcedure
	KindBody
	KindFooter
	KindFullDocument
)

func (k Kind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindPatientName:
		return "patient_name"
	case KindInsurance:
		return "insurance"
	case KindProcedure:
		return "procedure"
	case KindBody:
		return "body"
	case KindFooter:
		return "footer"
	case KindFullDocument:
		return "full_document"
	default:
		return "unknown"
	}
}

// Classification confidences: keyword matches are strong signals, bare
// position is weak, and a failed or empty probe is weaker still.
const (
	confKeyword     = 0.9
	confPositional  = 0.5
	confProbeFailed = 0.25
)

// Classify maps a probe transcript and the region's vertical position to a
// kind. The page is split into thirds: identity fields live near the top,
// procedure codes in the middle, and the bottom is footer matter probed by
// position alone.
func Classify(probeText string, box image.Rectangle, pageHeight int) (Kind, float64) {
	y := float64(box.Min.Y)
	h := float64(pageHeight)
	lower := strings.ToLower(probeText)

	switch {
	case y < 0.3*h:
		if strings.Contains(lower, "name") {
			return KindPatientName, confKeyword
		}
		if strings.Contains(lower, "insurance") {
			return KindInsurance, confKeyword
		}
		if strings.TrimSpace(lower) == "" {
			return KindHeader, confProbeFailed
		}
		return KindHeader, confPositional
	case y < 0.6*h:
		if strings.Contains(lower, "cpt") {
			return KindProcedure, confKeyword
		}
		if strings.TrimSpace(lower) == "" {
			return KindBody, confProbeFailed
		}
		return KindBody, confPositional
	default:
		return KindFooter, confPositional
	}
}
