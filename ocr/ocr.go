package ocr

import (
	"context"
	"image"
)

// Word represents a single recognized token.
type Word struct {
	Text string
	// Box locates the token in pixel coordinates with the origin in the
	// upper-left corner of the source image.
	Box image.Rectangle
	// Confidence is the engine's estimate on a 0-100 scale. Engines that
	// report no estimate for a token use a negative value.
	Confidence float64
}

// Result captures the output of one transcription attempt.
type Result struct {
	// Text is the linearized transcript, lines separated by newlines.
	Text string
	// Words carries the per-token breakdown the text was assembled from.
	Words []Word
}

// Engine is the recognition provider contract: one encoded image in, one
// transcript out. Implementations must honor context cancellation on the
// way in; long native calls additionally run under the engine's own
// watchdog deadline.
type Engine interface {
	Name() string
	Transcribe(ctx context.Context, image []byte, cfg Config) (Result, error)
}
