package ocr

// Model selects the recognizer generation inside an engine. The values
// mirror the classical Tesseract engine-mode numbering so they can be
// passed through unmapped.
type Model int

const (
	// ModelLSTM runs the neural line recognizer alone.
	ModelLSTM Model = 1
	// ModelDefault lets the engine pick its preferred recognizer.
	ModelDefault Model = 3
)

// Page segmentation modes, mirroring the classical engine numbering. Zero
// means the engine's own default.
const (
	PSMAuto         = 3
	PSMSingleColumn = 4
	PSMSingleBlock  = 6
	PSMSingleLine   = 7
	PSMSingleWord   = 8
	PSMSparse       = 11
	PSMSparseOSD    = 12
	PSMRawLine      = 13
)

// Config carries the per-attempt recognition knobs. The zero value asks the
// engine for its defaults.
type Config struct {
	// Languages lists trained-data hints (e.g. "eng"). Empty means English.
	Languages []string
	// Model selects the recognizer generation; zero leaves the engine's
	// default in place.
	Model Model
	// PSM is the page segmentation mode; zero leaves the engine's default.
	PSM int
	// Whitelist restricts recognition to the given characters.
	Whitelist string
	// Blacklist forbids the given characters.
	Blacklist string
	// NumericMode biases the classifier toward digit shapes.
	NumericMode bool
	// PreserveSpaces keeps multiple inter-word spaces in the transcript
	// instead of collapsing them.
	PreserveSpaces bool
	// UserWordsPath and UserPatternsPath point at vocabulary bias files,
	// usually materialized by BiasFiles.
	UserWordsPath    string
	UserPatternsPath string
	// DPI declares the effective resolution of the payload; zero means
	// unknown.
	DPI int
}
