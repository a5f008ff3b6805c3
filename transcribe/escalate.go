package transcribe

import (
	"context"
	"image"

	"github.com/wudi/ocrkit/ocr"
	"github.com/wudi/ocrkit/preprocess"
	"github.com/wudi/ocrkit/segment"
)

// BestOf reruns the full-page search under every preprocessing recipe and
// returns the strongest result along with the recipe that produced it. The
// source page is never mutated; each recipe renders its own copy. Callers
// decide whether the winner actually beats what they already have.
func BestOf(ctx context.Context, engine ocr.Engine, source image.Image, recipes []preprocess.Recipe, opts Options) (Result, string, error) {
	var best Result
	var bestRecipe string
	attempts := 0
	for _, recipe := range recipes {
		if err := ctx.Err(); err != nil {
			best.Attempts = attempts
			return best, bestRecipe, err
		}
		res, err := Search(ctx, engine, recipe.Apply(source), segment.KindFullDocument, opts)
		attempts += res.Attempts
		if err != nil {
			best.Attempts = attempts
			return best, bestRecipe, err
		}
		if bestRecipe == "" || res.Confidence > best.Confidence ||
			(res.Confidence == best.Confidence && len(res.Text) > len(best.Text)) {
			best = res
			bestRecipe = recipe.Name
		}
	}
	best.Attempts = attempts
	return best, bestRecipe, nil
}
