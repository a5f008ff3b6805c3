// Package preprocess turns a decoded page into an OCR-ready raster. The
// standard pipeline is a fixed, deterministic sequence of transforms that
// maximizes glyph legibility; each applied transform is recorded in a step
// ledger so callers can see exactly what happened to a page. A menu of
// alternative recipes covers degraded scans the standard pipeline cannot
// handle.
package preprocess

import (
	"image"

	"github.com/wudi/ocrkit/raster"
)

// Step names recorded in the ledger, in pipeline order.
const (
	StepGrayscale         = "grayscale"
	StepCLAHE             = "clahe"
	StepDenoise           = "denoise"
	StepDeskew            = "deskew"
	StepAdaptiveThreshold = "adaptive_threshold"
	StepMorphology        = "morphology"
	StepUpscale           = "upscale_2x"
	StepUnsharp           = "unsharp_mask"
)

// Run applies the standard pipeline: grayscale conversion (skipped for
// single-channel input), tiled contrast equalization, denoising, conditional
// deskew, adaptive binarization, speckle-removing morphology, 2x upscale and
// unsharp sharpening. The returned ledger lists the steps that were applied.
func Run(src image.Image) (*image.Gray, []string) {
	steps := make([]string, 0, 8)
	g, ok := src.(*image.Gray)
	if !ok {
		g = raster.ToGray(src)
		steps = append(steps, StepGrayscale)
	}

	g = raster.CLAHE(g, 2.0, 8)
	steps = append(steps, StepCLAHE)

	g = raster.Denoise(g, 10)
	steps = append(steps, StepDenoise)

	if rotated, ok := Deskew(g); ok {
		g = rotated
		steps = append(steps, StepDeskew)
	}

	g = raster.AdaptiveThreshold(g, raster.AdaptiveGaussian, 11, 2)
	steps = append(steps, StepAdaptiveThreshold)

	g = raster.Close(raster.Open(g, 2, 2), 2, 2)
	steps = append(steps, StepMorphology)

	g = raster.Upscale2x(g)
	steps = append(steps, StepUpscale)

	g = raster.Unsharp(g, 2.0, 2.0)
	steps = append(steps, StepUnsharp)

	return g, steps
}
