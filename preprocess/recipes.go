package preprocess

import (
	"image"

	"github.com/wudi/ocrkit/raster"
)

// Recipe is a named alternative preprocessing strategy. Recipes are tried
// during escalation when the standard pipeline's result is empty or falls
// below the confidence floor.
type Recipe struct {
	Name  string
	Apply func(src image.Image) *image.Gray
}

// RecipeStandard names the recipe equivalent to Run.
const RecipeStandard = "clahe_denoise_adaptiveth"

// Recipes returns the escalation menu in trial order. The first entry
// reproduces the standard pipeline so escalation always re-evaluates the
// baseline against a full-document transcription.
func Recipes() []Recipe {
	return []Recipe{
		{
			Name: RecipeStandard,
			Apply: func(src image.Image) *image.Gray {
				out, _ := Run(src)
				return out
			},
		},
		{
			Name: "bilateral_adaptiveth_mean",
			Apply: func(src image.Image) *image.Gray {
				g := raster.Bilateral(raster.ToGray(src), 9, 75, 75)
				return raster.AdaptiveThreshold(g, raster.AdaptiveMean, 15, 5)
			},
		},
		{
			Name: "gauss_otsu",
			Apply: func(src image.Image) *image.Gray {
				g := raster.GaussianBlur(raster.ToGray(src), 1.1)
				return raster.BinarizeOtsu(g, false)
			},
		},
		{
			Name: "inverted",
			Apply: func(src image.Image) *image.Gray {
				out, _ := Run(src)
				return raster.Invert(out)
			},
		},
		{
			Name: "normalized_otsu",
			Apply: func(src image.Image) *image.Gray {
				g := raster.Normalize(raster.ToGray(src))
				return raster.BinarizeOtsu(g, false)
			},
		},
		{
			Name: "aggressive_denoise_close",
			Apply: func(src image.Image) *image.Gray {
				g := raster.Denoise(raster.ToGray(src), 20)
				g = raster.Close(g, 3, 3)
				return raster.AdaptiveThreshold(g, raster.AdaptiveGaussian, 25, 6)
			},
		},
	}
}
