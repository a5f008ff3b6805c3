package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/wudi/ocrkit/loader"
	"github.com/wudi/ocrkit/normalize"
	"github.com/wudi/ocrkit/observability"
	"github.com/wudi/ocrkit/ocr"
	"github.com/wudi/ocrkit/ocr/gemini"
	"github.com/wudi/ocrkit/ocr/tesseract"
	"github.com/wudi/ocrkit/pipeline"
)

type options struct {
	inputPath    string
	engine       string
	userWords    string
	userPatterns string
	languages    string
	quality      bool
	debug        bool
	failOnEmpty  bool
	lexiconPath  string
	timeout      time.Duration
}

// errEmptyResult marks a run that produced no text under --fail-on-empty.
var errEmptyResult = errors.New("no text recognized")

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "transcribe: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "transcribe: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, loader.ErrNotFound):
		return 1
	case errors.Is(err, loader.ErrNoBackend):
		return 3
	case errors.Is(err, errEmptyResult):
		return 4
	default:
		return 2
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: transcribe [flags] <image-or-pdf>\n")
		flag.PrintDefaults()
	}
	engine := flag.String("engine", "tesseract", "Recognition engine: tesseract or gemini")
	userWords := flag.String("user-words", "", "File with extra vocabulary words, one per line")
	userPatterns := flag.String("user-patterns", "", "File with extra token patterns, one per line")
	lang := flag.String("lang", "eng", "Language hint passed to the engine")
	quality := flag.Bool("quality", false, "Widen the configuration search for difficult scans")
	debug := flag.Bool("debug", false, "Save per-page artifacts and log diagnostics")
	failOnEmpty := flag.Bool("fail-on-empty", false, "Exit nonzero when no text is recognized")
	lexicon := flag.String("lexicon", "", "YAML lexicon overriding the built-in correction tables")
	timeout := flag.Duration("timeout", 0, "Hard cap per engine invocation (0 uses the engine default)")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return options{}, fmt.Errorf("missing input path")
	}
	if *engine != "tesseract" && *engine != "gemini" {
		return options{}, fmt.Errorf("unknown engine %q", *engine)
	}
	opts = options{
		inputPath:    flag.Arg(0),
		engine:       *engine,
		userWords:    *userWords,
		userPatterns: *userPatterns,
		languages:    *lang,
		quality:      *quality,
		debug:        *debug,
		failOnEmpty:  *failOnEmpty,
		lexiconPath:  *lexicon,
		timeout:      *timeout,
	}
	return opts, nil
}

func run(opts options) error {
	_ = godotenv.Load()

	log := observability.NewWriterLogger(os.Stderr, opts.debug)
	rec := observability.RecorderFunc(func(name string, value float64) {
		log.Debug("metric", observability.String("name", name), observability.Float64("value", value))
	})
	ctx := context.Background()

	lex := normalize.DefaultLexicon()
	if opts.lexiconPath != "" {
		loaded, err := normalize.LoadLexicon(opts.lexiconPath)
		if err != nil {
			return err
		}
		lex = loaded
	}
	norm := normalize.New(lex)

	words, err := readList(opts.userWords)
	if err != nil {
		return err
	}
	patterns, err := readList(opts.userPatterns)
	if err != nil {
		return err
	}
	bias, err := ocr.NewBiasFiles(words, patterns)
	if err != nil {
		return err
	}
	defer bias.Close()

	engine, cleanup, err := buildEngine(ctx, opts.engine, log)
	if err != nil {
		return err
	}
	defer cleanup()

	renderStart := time.Now()
	pages, err := loader.Load(ctx, opts.inputPath)
	if err != nil {
		return err
	}
	rec.Observe(observability.MetricRenderTime, time.Since(renderStart).Seconds())
	log.Debug("input loaded",
		observability.String("path", opts.inputPath),
		observability.Int("pages", len(pages)))

	proc := pipeline.New(engine, norm, pipeline.Options{
		Languages:        splitLanguages(opts.languages),
		Quality:          opts.quality,
		Debug:            opts.debug,
		UserWordsPath:    bias.WordsPath,
		UserPatternsPath: bias.PatternsPath,
		AttemptTimeout:   opts.timeout,
		Logger:           log,
		Metrics:          rec,
	})
	result, err := proc.ProcessDocument(ctx, pages)
	if err != nil {
		return fmt.Errorf("process %s: %w", opts.inputPath, err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Println(string(data))

	if opts.failOnEmpty && strings.TrimSpace(result.Text) == "" {
		return errEmptyResult
	}
	return nil
}

// buildEngine constructs the requested engine. A gemini request without
// credentials degrades to the local engine instead of failing, so the same
// invocation works with and without an API key in the environment.
func buildEngine(ctx context.Context, name string, log observability.Logger) (ocr.Engine, func(), error) {
	if name == "tesseract" {
		return tesseract.New(), func() {}, nil
	}
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		key = os.Getenv("GOOGLE_API_KEY")
	}
	g, err := gemini.New(ctx, key)
	if errors.Is(err, gemini.ErrNoCredentials) {
		log.Warn("gemini credentials missing, using tesseract")
		return tesseract.New(), func() {}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("gemini engine: %w", err)
	}
	return g, func() { g.Close() }, nil
}

func readList(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var entries []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			entries = append(entries, line)
		}
	}
	return entries, nil
}

func splitLanguages(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == '+' || r == ',' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
