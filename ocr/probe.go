package ocr

import (
	"context"
	"strings"
)

// Probe runs a cheap single-word recognition pass over a region crop. It is
// meant for classification hints, not extraction, so engine failures
// degrade to an empty transcript rather than an error.
func Probe(ctx context.Context, engine Engine, image []byte) string {
	res, err := engine.Transcribe(ctx, image, Config{PSM: PSMSingleWord})
	if err != nil {
		return ""
	}
	return strings.TrimSpace(res.Text)
}
