package transcribe

import (
	"github.com/wudi/ocrkit/ocr"
	"github.com/wudi/ocrkit/segment"
)

// Character inventories for engine whitelists. The engine treats the string
// as a literal set, so ranges are spelled out.
const (
	digits  = "0123456789"
	letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

// RegionConfig is the transcription strategy for one region kind: which
// characters to allow, which segmentation modes to try in which order, and
// whether a relaxed second pass should back up a strict first one.
type RegionConfig struct {
	// Whitelist restricts the primary pass; empty allows everything.
	Whitelist string
	// Blacklist lists characters the primary pass must never emit.
	Blacklist string
	// PSMs and QualityPSMs order the segmentation modes for the normal and
	// quality searches.
	PSMs        []int
	QualityPSMs []int
	// DefaultPSM leads the relaxed pass and seeds reporting.
	DefaultPSM int
	// Numeric biases the primary pass toward digit shapes.
	Numeric bool
	// StrictFirst adds a relaxed second pass with RelaxedWhitelist after
	// the strict one, for fields where a tight whitelist can starve the
	// recognizer entirely.
	StrictFirst      bool
	RelaxedWhitelist string
}

// ConfigFor returns the strategy for a region kind. Unknown kinds share the
// generic block strategy.
func ConfigFor(kind segment.Kind) RegionConfig {
	switch kind {
	case segment.KindProcedure:
		return RegionConfig{
			Whitelist:        digits,
			Blacklist:        "OIlS",
			PSMs:             []int{ocr.PSMSingleLine, ocr.PSMSingleWord, ocr.PSMSingleBlock, ocr.PSMAuto},
			QualityPSMs:      []int{ocr.PSMSingleLine, ocr.PSMSingleWord, ocr.PSMSingleBlock, ocr.PSMRawLine},
			DefaultPSM:       ocr.PSMSingleLine,
			Numeric:          true,
			StrictFirst:      true,
			RelaxedWhitelist: digits + letters + " -",
		}
	case segment.KindPatientName:
		return RegionConfig{
			Whitelist:   letters + " .,–-",
			PSMs:        []int{ocr.PSMSingleLine, ocr.PSMSingleBlock, ocr.PSMRawLine},
			QualityPSMs: []int{ocr.PSMSingleLine, ocr.PSMSingleBlock, ocr.PSMRawLine},
			DefaultPSM:  ocr.PSMSingleLine,
		}
	case segment.KindInsurance:
		return RegionConfig{
			Whitelist:   letters + digits + " .,-&",
			PSMs:        []int{ocr.PSMSingleLine, ocr.PSMSingleBlock, ocr.PSMRawLine},
			QualityPSMs: []int{ocr.PSMSingleLine, ocr.PSMSingleBlock, ocr.PSMRawLine},
			DefaultPSM:  ocr.PSMSingleLine,
		}
	case segment.KindFullDocument:
		return RegionConfig{
			PSMs:        []int{ocr.PSMSingleBlock, ocr.PSMAuto},
			QualityPSMs: []int{ocr.PSMSingleBlock, ocr.PSMSingleColumn, ocr.PSMSparse, ocr.PSMRawLine},
			DefaultPSM:  ocr.PSMSingleBlock,
		}
	default:
		return RegionConfig{
			PSMs:        []int{ocr.PSMSingleBlock, ocr.PSMAuto, ocr.PSMSparse, ocr.PSMSparseOSD, ocr.PSMRawLine},
			QualityPSMs: []int{ocr.PSMSingleBlock, ocr.PSMAuto, ocr.PSMSparse, ocr.PSMSparseOSD, ocr.PSMRawLine},
			DefaultPSM:  ocr.PSMSingleBlock,
		}
	}
}

// models orders the recognizer generations every search crosses with its
// segmentation modes.
var models = []ocr.Model{ocr.ModelLSTM, ocr.ModelDefault}
