// Package transcribe runs the multi-configuration recognition search: every
// region is attempted under a matrix of recognizer generations and
// segmentation modes, and the highest-confidence attempt wins. The search
// never fails a region; a fully exhausted matrix degrades to one
// unconstrained attempt adopted at zero confidence.
package transcribe

import (
	"context"
	"image"
	"strings"
	"time"

	"github.com/wudi/ocrkit/ocr"
	"github.com/wudi/ocrkit/raster"
	"github.com/wudi/ocrkit/segment"
)

// Options carry the per-run knobs shared by every search.
type Options struct {
	// Languages passes trained-data hints to the engine.
	Languages []string
	// Quality widens the segmentation-mode matrix and preserves inter-word
	// spacing, trading time for accuracy.
	Quality bool
	// DPI declares the effective resolution of rendered pages.
	DPI int
	// UserWordsPath and UserPatternsPath point at vocabulary bias files.
	UserWordsPath    string
	UserPatternsPath string
	// AttemptTimeout bounds each engine invocation; a timed-out attempt is
	// skipped like any other engine error. Zero relies on the engine's own
	// watchdog.
	AttemptTimeout time.Duration
}

// Result is the winning attempt for one raster.
type Result struct {
	Text       string
	Confidence float64
	PSM        int
	Model      ocr.Model
	Words      []ocr.Word
	// Attempts counts engine invocations spent on this raster, including
	// failed ones.
	Attempts int
}

type pass struct {
	psms      []int
	whitelist string
	blacklist string
	numeric   bool
}

// Search transcribes one region raster under the kind's strategy. The only
// terminal error is context cancellation; engine failures merely skip the
// attempt that hit them.
func Search(ctx context.Context, engine ocr.Engine, region *image.Gray, kind segment.Kind, opts Options) (Result, error) {
	encoded, err := raster.EncodePNG(region)
	if err != nil {
		return Result{}, err
	}

	rc := ConfigFor(kind)
	psms := rc.PSMs
	if opts.Quality {
		psms = rc.QualityPSMs
	}
	passes := []pass{{psms: psms, whitelist: rc.Whitelist, blacklist: rc.Blacklist, numeric: rc.Numeric}}
	if rc.StrictFirst {
		// The relaxed pass widens the whitelist but keeps the kind's digit
		// bias and blacklist.
		passes = append(passes, pass{
			psms:      dedup(rc.DefaultPSM, ocr.PSMSingleBlock, ocr.PSMAuto),
			whitelist: rc.RelaxedWhitelist,
			blacklist: rc.Blacklist,
			numeric:   rc.Numeric,
		})
	}

	var best Result
	for _, p := range passes {
		for _, model := range models {
			for _, psm := range p.psms {
				if err := ctx.Err(); err != nil {
					return best, err
				}
				cfg := ocr.Config{
					Languages:        opts.Languages,
					Model:            model,
					PSM:              psm,
					Whitelist:        p.whitelist,
					Blacklist:        p.blacklist,
					NumericMode:      p.numeric,
					PreserveSpaces:   opts.Quality,
					UserWordsPath:    opts.UserWordsPath,
					UserPatternsPath: opts.UserPatternsPath,
					DPI:              opts.DPI,
				}
				best.Attempts++
				res, err := attempt(ctx, engine, encoded, cfg, opts.AttemptTimeout)
				if err != nil {
					continue
				}
				text := strings.TrimSpace(res.Text)
				conf := ocr.MeanConfidence(res.Words)
				if conf > best.Confidence || (conf == best.Confidence && len(text) > len(best.Text)) {
					attempts := best.Attempts
					best = Result{Text: text, Confidence: conf, PSM: psm, Model: model, Words: res.Words, Attempts: attempts}
				}
			}
		}
	}

	// A matrix that never scored gets one unconstrained shot, adopted at
	// zero confidence so it can only ever fill a blank.
	if best.Confidence <= 0 {
		if err := ctx.Err(); err != nil {
			return best, err
		}
		cfg := ocr.Config{
			Languages:        opts.Languages,
			UserWordsPath:    opts.UserWordsPath,
			UserPatternsPath: opts.UserPatternsPath,
			DPI:              opts.DPI,
		}
		best.Attempts++
		if res, err := attempt(ctx, engine, encoded, cfg, opts.AttemptTimeout); err == nil {
			best.Text = strings.TrimSpace(res.Text)
			best.Confidence = 0
			best.PSM = 0
			best.Model = 0
			best.Words = res.Words
		}
	}
	return best, nil
}

func attempt(ctx context.Context, engine ocr.Engine, img []byte, cfg ocr.Config, timeout time.Duration) (ocr.Result, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return engine.Transcribe(ctx, img, cfg)
}

func dedup(psms ...int) []int {
	out := psms[:0]
	seen := map[int]bool{}
	for _, psm := range psms {
		if seen[psm] {
			continue
		}
		seen[psm] = true
		out = append(out, psm)
	}
	return out
}
