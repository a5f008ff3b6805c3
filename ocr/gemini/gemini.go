// Package gemini adapts Google's generative vision API to the ocr.Engine
// contract. The model reads a page in one shot and returns plain text, so
// word boxes and confidences are synthesized: boxes follow the reported
// line structure and confidences are estimated from token statistics.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/wudi/ocrkit/ocr"
)

const defaultModelName = "gemini-1.5-flash"

const basePrompt = "Transcribe every piece of text visible in this scanned document image. " +
	"Preserve the reading order and the line breaks. " +
	"Output only the transcribed text, with no commentary."

// ErrNoCredentials is returned by New when no API key is available. Callers
// typically fall back to the local engine.
var ErrNoCredentials = errors.New("gemini: missing api key")

// generator is the slice of genai.GenerativeModel the engine depends on.
// Tests substitute a scripted implementation.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Engine recognizes text through the Gemini API.
type Engine struct {
	client    *genai.Client
	model     generator
	modelName string
}

// Option configures an Engine.
type Option func(*Engine)

// WithModelName overrides the generative model used for transcription.
func WithModelName(name string) Option {
	return func(e *Engine) { e.modelName = name }
}

// New constructs a Gemini-backed engine. The API key is mandatory; an empty
// key returns ErrNoCredentials so callers can decide on a fallback.
func New(ctx context.Context, apiKey string, opts ...Option) (*Engine, error) {
	if apiKey == "" {
		return nil, ErrNoCredentials
	}
	e := &Engine{modelName: defaultModelName}
	for _, opt := range opts {
		opt(e)
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	e.client = client
	e.model = client.GenerativeModel(e.modelName)
	return e, nil
}

func newWithGenerator(g generator) *Engine {
	return &Engine{model: g, modelName: defaultModelName}
}

func (e *Engine) Name() string { return "gemini" }

// Close releases the underlying API client.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// Transcribe sends the page image with a transcription prompt and rebuilds
// a word-level result from the returned text.
func (e *Engine) Transcribe(ctx context.Context, img []byte, cfg ocr.Config) (ocr.Result, error) {
	resp, err := e.model.GenerateContent(ctx, genai.ImageData("png", img), genai.Text(prompt(cfg)))
	if err != nil {
		return ocr.Result{}, fmt.Errorf("generate content: %w", err)
	}
	text := strings.TrimSpace(responseText(resp))
	if text == "" {
		return ocr.Result{}, nil
	}
	return ocr.Result{Text: text, Words: syntheticWords(text)}, nil
}

func prompt(cfg ocr.Config) string {
	p := basePrompt
	if cfg.NumericMode || cfg.Whitelist == "0123456789" {
		p += " The region contains a numeric code; transcribe digits exactly."
	}
	return p
}

func responseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
		break
	}
	return sb.String()
}

// syntheticWords lays tokens out on a synthetic grid so line reconstruction
// elsewhere reproduces the model's line breaks.
func syntheticWords(text string) []ocr.Word {
	var words []ocr.Word
	for row, line := range strings.Split(text, "\n") {
		x := 0
		for _, token := range strings.Fields(line) {
			width := 8 * utf8.RuneCountInString(token)
			words = append(words, ocr.Word{
				Text:       token,
				Box:        image.Rect(x, row*16, x+width, row*16+12),
				Confidence: tokenConfidence(token),
			})
			x += width + 8
		}
	}
	return words
}

// tokenConfidence estimates recognition quality for a token the API does
// not score. Longer tokens with a high alphanumeric share read as more
// trustworthy than bare punctuation.
func tokenConfidence(token string) float64 {
	n := utf8.RuneCountInString(token)
	if n == 0 {
		return 0
	}
	alnum := 0
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			alnum++
		}
	}
	length := n
	if length > 8 {
		length = 8
	}
	conf := 50 + 30*float64(alnum)/float64(n) + 2.5*float64(length)
	if conf > 95 {
		conf = 95
	}
	return conf
}
