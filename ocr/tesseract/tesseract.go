// Package tesseract adapts the gosseract client to the ocr.Engine contract.
// A fresh client is created per attempt because segmentation mode, character
// whitelists, and bias files all vary between attempts and stale variables
// must not leak across calls.
package tesseract

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"

	"github.com/wudi/ocrkit/ocr"
)

const defaultCallTimeout = 30 * time.Second

// Engine recognizes text with a local Tesseract installation.
type Engine struct {
	clientFactory func() *gosseract.Client
	callTimeout   time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithClientFactory substitutes the gosseract client constructor, mainly
// for tests.
func WithClientFactory(f func() *gosseract.Client) Option {
	return func(e *Engine) { e.clientFactory = f }
}

// WithCallTimeout bounds each native recognition call. Non-positive
// disables the watchdog.
func WithCallTimeout(d time.Duration) Option {
	return func(e *Engine) { e.callTimeout = d }
}

// New constructs a Tesseract-backed engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		clientFactory: gosseract.NewClient,
		callTimeout:   defaultCallTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Name() string { return "tesseract" }

// Transcribe runs one recognition pass. The native call cannot be
// interrupted, so cancellation and the watchdog abandon the worker
// goroutine; it releases its client when the call eventually returns.
func (e *Engine) Transcribe(ctx context.Context, image []byte, cfg ocr.Config) (ocr.Result, error) {
	if err := ctx.Err(); err != nil {
		return ocr.Result{}, err
	}

	var expired <-chan time.Time
	if e.callTimeout > 0 {
		timer := time.NewTimer(e.callTimeout)
		defer timer.Stop()
		expired = timer.C
	}

	type outcome struct {
		res ocr.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := e.recognize(image, cfg)
		done <- outcome{res: res, err: err}
	}()

	select {
	case out := <-done:
		return out.res, out.err
	case <-ctx.Done():
		return ocr.Result{}, ctx.Err()
	case <-expired:
		return ocr.Result{}, fmt.Errorf("tesseract call after %s: %w", e.callTimeout, context.DeadlineExceeded)
	}
}

func (e *Engine) recognize(image []byte, cfg ocr.Config) (ocr.Result, error) {
	client := e.clientFactory()
	defer client.Close()

	if err := client.SetImageFromBytes(image); err != nil {
		return ocr.Result{}, fmt.Errorf("set image: %w", err)
	}
	langs := cfg.Languages
	if len(langs) == 0 {
		langs = []string{"eng"}
	}
	if err := client.SetLanguage(langs...); err != nil {
		return ocr.Result{}, fmt.Errorf("set languages: %w", err)
	}
	if cfg.PSM > 0 {
		if err := client.SetPageSegMode(gosseract.PageSegMode(cfg.PSM)); err != nil {
			return ocr.Result{}, fmt.Errorf("set page seg mode: %w", err)
		}
	}
	for _, v := range variables(cfg) {
		if err := client.SetVariable(gosseract.SettableVariable(v.name), v.value); err != nil {
			return ocr.Result{}, fmt.Errorf("set variable %s: %w", v.name, err)
		}
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return ocr.Result{}, fmt.Errorf("recognize: %w", err)
	}
	words := make([]ocr.Word, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		words = append(words, ocr.Word{Text: text, Box: b.Box, Confidence: b.Confidence})
	}
	return ocr.Result{Text: ocr.TextFromWords(words), Words: words}, nil
}

type variable struct {
	name  string
	value string
}

func variables(cfg ocr.Config) []variable {
	var vars []variable
	if cfg.Model > 0 {
		vars = append(vars, variable{"tessedit_ocr_engine_mode", strconv.Itoa(int(cfg.Model))})
	}
	if cfg.DPI > 0 {
		vars = append(vars, variable{"user_defined_dpi", strconv.Itoa(cfg.DPI)})
	}
	if cfg.Whitelist != "" {
		vars = append(vars, variable{"tessedit_char_whitelist", cfg.Whitelist})
	}
	if cfg.Blacklist != "" {
		vars = append(vars, variable{"tessedit_char_blacklist", cfg.Blacklist})
	}
	if cfg.NumericMode {
		vars = append(vars, variable{"classify_bln_numeric_mode", "1"})
	}
	if cfg.PreserveSpaces {
		vars = append(vars, variable{"preserve_interword_spaces", "1"})
	}
	if cfg.UserWordsPath != "" {
		vars = append(vars, variable{"user_words_file", cfg.UserWordsPath})
	}
	if cfg.UserPatternsPath != "" {
		vars = append(vars, variable{"user_patterns_file", cfg.UserPatternsPath})
	}
	return vars
}
