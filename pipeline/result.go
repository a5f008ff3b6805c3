package pipeline

import "image"

// RegionResult is one transcribed region on the wire. BBox is x, y, width,
// height in page pixels.
type RegionResult struct {
	Name       string  `json:"region_name"`
	BBox       [4]int  `json:"bbox"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	PSM        int     `json:"psm_used"`
}

// EngineComparison is the raw full-page pass captured in debug mode,
// before any normalization.
type EngineComparison struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	PSM        int     `json:"psm"`
}

// DebugInfo collects debug-mode artifacts for one page.
type DebugInfo struct {
	PreprocessedImage  string            `json:"preprocessed_image,omitempty"`
	FullEngineResults  *EngineComparison `json:"full_engine_results,omitempty"`
	PreprocessingSteps []string          `json:"preprocessing_steps,omitempty"`
}

// PageResult is the outcome for a single page.
type PageResult struct {
	Page          int            `json:"page"`
	Text          string         `json:"text"`
	Confidence    float64        `json:"confidence"`
	Engine        string         `json:"engine"`
	Regions       []RegionResult `json:"regions"`
	Preprocessing []string       `json:"preprocessing"`
	Debug         *DebugInfo     `json:"debug,omitempty"`
}

// DocumentResult is the top-level output object. Single-page documents
// carry their regions and preprocessing ledger directly; multi-page
// documents list per-page results under Pages and keep the combined
// transcript and average confidence at the top.
type DocumentResult struct {
	Text          string         `json:"text"`
	Confidence    float64        `json:"avg_conf"`
	Engine        string         `json:"engine"`
	Regions       []RegionResult `json:"regions,omitempty"`
	Preprocessing []string       `json:"preprocessing_applied,omitempty"`
	Pages         []PageResult   `json:"pages,omitempty"`
	FallbackText  string         `json:"fallback_text,omitempty"`
	Debug         *DebugInfo     `json:"debug,omitempty"`
}

func bbox(r image.Rectangle) [4]int {
	return [4]int{r.Min.X, r.Min.Y, r.Dx(), r.Dy()}
}
