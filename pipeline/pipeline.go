// Package pipeline orchestrates page extraction: preprocess the raster,
// detect and classify regions, transcribe each under its kind's search
// strategy, normalize the text, and assemble page and document results.
// Pages whose combined result is empty or falls below the confidence floor
// are escalated once through the alternative preprocessing recipes.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wudi/ocrkit/loader"
	"github.com/wudi/ocrkit/normalize"
	"github.com/wudi/ocrkit/observability"
	"github.com/wudi/ocrkit/ocr"
	"github.com/wudi/ocrkit/preprocess"
	"github.com/wudi/ocrkit/raster"
	"github.com/wudi/ocrkit/segment"
	"github.com/wudi/ocrkit/transcribe"
)

const defaultDPI = 400

// Options carry the per-run processor knobs.
type Options struct {
	// Languages passes trained-data hints to the engine.
	Languages []string
	// Quality widens the search matrix, trading time for accuracy.
	Quality bool
	// Debug saves per-page artifacts and embeds them in the result.
	Debug bool
	// DebugDir receives debug artifacts; empty means the OS temp dir.
	DebugDir string
	// UserWordsPath and UserPatternsPath point at vocabulary bias files.
	UserWordsPath    string
	UserPatternsPath string
	// DPI declares the effective resolution of page rasters. Zero means
	// the standard 400 DPI render resolution.
	DPI int
	// AttemptTimeout bounds each engine invocation.
	AttemptTimeout time.Duration
	// Logger and Metrics default to no-ops when nil.
	Logger  observability.Logger
	Metrics observability.Recorder
}

// Processor runs the extraction flow with one engine and one normalizer.
// It is stateless across pages and safe to reuse for multiple documents.
type Processor struct {
	engine ocr.Engine
	norm   *normalize.Normalizer
	log    observability.Logger
	rec    observability.Recorder
	opts   Options
}

// New builds a Processor. A nil normalizer gets the embedded default
// lexicon.
func New(engine ocr.Engine, norm *normalize.Normalizer, opts Options) *Processor {
	if norm == nil {
		norm = normalize.New(normalize.DefaultLexicon())
	}
	if opts.Logger == nil {
		opts.Logger = observability.NopLogger{}
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.NopRecorder()
	}
	if opts.DPI == 0 {
		opts.DPI = defaultDPI
	}
	return &Processor{
		engine: engine,
		norm:   norm,
		log:    opts.Logger,
		rec:    opts.Metrics,
		opts:   opts,
	}
}

func (p *Processor) searchOptions() transcribe.Options {
	return transcribe.Options{
		Languages:        p.opts.Languages,
		Quality:          p.opts.Quality,
		DPI:              p.opts.DPI,
		UserWordsPath:    p.opts.UserWordsPath,
		UserPatternsPath: p.opts.UserPatternsPath,
		AttemptTimeout:   p.opts.AttemptTimeout,
	}
}

// ProcessPage runs the full extraction flow on one page image. pageNum is
// zero-based.
func (p *Processor) ProcessPage(ctx context.Context, pageNum int, src image.Image) (PageResult, error) {
	pageStart := time.Now()

	prepStart := time.Now()
	processed, steps := preprocess.Run(src)
	p.rec.Observe(observability.MetricPreprocessTime, time.Since(prepStart).Seconds())
	p.log.Debug("page preprocessed",
		observability.Int("page", pageNum),
		observability.String("steps", strings.Join(steps, ",")))

	regions := segment.Detect(processed, p.probe(ctx))
	p.rec.Observe(observability.MetricRegionCount, float64(len(regions)))

	out := PageResult{
		Page:          pageNum,
		Engine:        p.engine.Name(),
		Regions:       make([]RegionResult, 0, len(regions)),
		Preprocessing: append([]string(nil), steps...),
	}

	attempts := 0
	for _, region := range regions {
		if err := ctx.Err(); err != nil {
			return PageResult{}, err
		}
		crop := raster.Crop(processed, region.Box)
		res, err := transcribe.Search(ctx, p.engine, crop, region.Kind, p.searchOptions())
		if err != nil {
			return PageResult{}, err
		}
		attempts += res.Attempts
		text := p.norm.Correct(res.Text, region.Kind)
		p.log.Debug("region transcribed",
			observability.String("region", region.Kind.String()),
			observability.Int("psm", res.PSM),
			observability.Float64("confidence", res.Confidence))
		out.Regions = append(out.Regions, RegionResult{
			Name:       region.Kind.String(),
			BBox:       bbox(region.Box),
			Text:       text,
			Confidence: res.Confidence,
			PSM:        res.PSM,
		})
	}
	p.rec.Observe(observability.MetricAttemptCount, float64(attempts))

	out.Text, out.Confidence = combine(out.Regions)
	out.Text = p.norm.Correct(out.Text, segment.KindUnknown)

	if err := p.escalate(ctx, &out, src); err != nil {
		return PageResult{}, err
	}

	if p.opts.Debug {
		out.Debug = p.debugArtifacts(ctx, processed, steps)
	}

	p.rec.Observe(observability.MetricPageConfidence, out.Confidence)
	p.rec.Observe(observability.MetricPageTime, time.Since(pageStart).Seconds())
	p.log.Info("page processed",
		observability.Int("page", pageNum),
		observability.Int("regions", len(out.Regions)),
		observability.Float64("confidence", out.Confidence))
	return out, nil
}

// combine joins non-empty region texts in detection order and averages
// their confidences. Empty regions stay out of the average instead of
// dragging it toward zero.
func combine(regions []RegionResult) (string, float64) {
	var parts []string
	var sum float64
	for _, r := range regions {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		parts = append(parts, r.Text)
		sum += r.Confidence
	}
	if len(parts) == 0 {
		return "", 0
	}
	return strings.Join(parts, "\n"), sum / float64(len(parts))
}

// escalate re-runs the page through every preprocessing recipe when the
// assembled result is empty or below the lexicon's confidence floor, and
// adopts the best full-document result only on strict improvement. Runs at
// most once per page.
func (p *Processor) escalate(ctx context.Context, out *PageResult, src image.Image) error {
	floor := p.norm.Lexicon().ConfidenceFloor
	if strings.TrimSpace(out.Text) != "" && out.Confidence >= floor {
		return nil
	}
	p.log.Info("escalating page",
		observability.Int("page", out.Page),
		observability.Float64("confidence", out.Confidence))
	p.rec.Observe(observability.MetricEscalationCount, 1)

	res, recipe, err := transcribe.BestOf(ctx, p.engine, src, preprocess.Recipes(), p.searchOptions())
	if err != nil {
		return err
	}
	p.rec.Observe(observability.MetricAttemptCount, float64(res.Attempts))
	text := p.norm.Correct(res.Text, segment.KindFullDocument)
	if res.Confidence <= out.Confidence {
		p.log.Debug("escalation discarded",
			observability.String("recipe", recipe),
			observability.Float64("confidence", res.Confidence))
		return nil
	}

	b := src.Bounds()
	out.Text = text
	out.Confidence = res.Confidence
	out.Regions = []RegionResult{{
		Name:       segment.KindFullDocument.String(),
		BBox:       bbox(image.Rect(0, 0, b.Dx(), b.Dy())),
		Text:       text,
		Confidence: res.Confidence,
		PSM:        res.PSM,
	}}
	out.Preprocessing = append(out.Preprocessing, "variant:"+recipe)
	p.log.Info("escalation adopted",
		observability.String("recipe", recipe),
		observability.Float64("confidence", res.Confidence))
	return nil
}

// probe wraps the engine's cheap single-word pass for region
// classification. Probe failures read as empty text, which the classifier
// treats as a low-confidence positional guess.
func (p *Processor) probe(ctx context.Context) segment.ProbeFunc {
	return func(region *image.Gray) (string, error) {
		encoded, err := raster.EncodePNG(region)
		if err != nil {
			return "", err
		}
		return ocr.Probe(ctx, p.engine, encoded), nil
	}
}

// debugArtifacts saves the preprocessed raster under a unique name and
// runs one raw full-document pass on it for comparison against the
// assembled result.
func (p *Processor) debugArtifacts(ctx context.Context, processed *image.Gray, steps []string) *DebugInfo {
	info := &DebugInfo{PreprocessingSteps: append([]string(nil), steps...)}

	dir := p.opts.DebugDir
	if dir == "" {
		dir = os.TempDir()
	}
	if encoded, err := raster.EncodePNG(processed); err == nil {
		path := filepath.Join(dir, "ocrkit-page-"+uuid.NewString()+".png")
		if err := os.WriteFile(path, encoded, 0o600); err == nil {
			info.PreprocessedImage = path
			p.log.Info("debug raster saved", observability.String("path", path))
		} else {
			p.log.Warn("debug raster not saved", observability.Error("error", err))
		}
	}

	res, err := transcribe.Search(ctx, p.engine, processed, segment.KindFullDocument, p.searchOptions())
	if err == nil {
		info.FullEngineResults = &EngineComparison{
			Text:       res.Text,
			Confidence: res.Confidence,
			PSM:        res.PSM,
		}
	}
	return info
}

// ProcessDocument processes every loaded page and assembles the document
// result. Multi-page transcripts join non-empty pages as "Page N:" blocks;
// single-page documents surface their page directly at the top level.
func (p *Processor) ProcessDocument(ctx context.Context, pages []loader.Page) (DocumentResult, error) {
	doc := DocumentResult{Engine: p.engine.Name()}
	var parts []string
	var sum float64
	nonEmpty := 0
	for _, page := range pages {
		res, err := p.ProcessPage(ctx, page.Index, page.Image)
		if err != nil {
			return DocumentResult{}, fmt.Errorf("page %d: %w", page.Index+1, err)
		}
		doc.Pages = append(doc.Pages, res)
		if strings.TrimSpace(res.Text) != "" {
			parts = append(parts, fmt.Sprintf("Page %d:\n%s", page.Index+1, res.Text))
			sum += res.Confidence
			nonEmpty++
		}
	}
	if nonEmpty > 0 {
		doc.Text = strings.Join(parts, "\n\n")
		doc.Confidence = sum / float64(nonEmpty)
	}

	if len(doc.Pages) == 1 {
		pg := doc.Pages[0]
		doc.Text = pg.Text
		doc.Confidence = pg.Confidence
		doc.Regions = pg.Regions
		doc.Preprocessing = pg.Preprocessing
		doc.Debug = pg.Debug
		doc.Pages = nil
	}

	if strings.TrimSpace(doc.Text) == "" && len(pages) > 0 {
		doc.FallbackText = p.quickFallback(ctx, pages[0].Image)
	}
	return doc, nil
}

// quickFallback is the last-resort plain pass over the standard
// preprocessed raster when the whole document came back empty. Its output
// is surfaced separately and never replaces the transcript.
func (p *Processor) quickFallback(ctx context.Context, src image.Image) string {
	processed, _ := preprocess.Run(src)
	encoded, err := raster.EncodePNG(processed)
	if err != nil {
		return ""
	}
	res, err := p.engine.Transcribe(ctx, encoded, ocr.Config{
		Languages:        p.opts.Languages,
		Model:            ocr.ModelDefault,
		PSM:              ocr.PSMSingleBlock,
		UserWordsPath:    p.opts.UserWordsPath,
		UserPatternsPath: p.opts.UserPatternsPath,
		DPI:              p.opts.DPI,
	})
	if err != nil {
		return ""
	}
	return strings.TrimSpace(res.Text)
}
