package observability

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

type Field interface {
	Key() string
	Value() interface{}
}

type stringField struct{ key, val string }

func (f stringField) Key() string        { return f.key }
func (f stringField) Value() interface{} { return f.val }

type intField struct {
	key string
	val int
}

func (f intField) Key() string        { return f.key }
func (f intField) Value() interface{} { return f.val }

type float64Field struct {
	key string
	val float64
}

func (f float64Field) Key() string        { return f.key }
func (f float64Field) Value() interface{} { return f.val }

type durationField struct {
	key string
	val time.Duration
}

func (f durationField) Key() string        { return f.key }
func (f durationField) Value() interface{} { return f.val }

type errorField struct {
	key string
	err error
}

func (f errorField) Key() string        { return f.key }
func (f errorField) Value() interface{} { return f.err }

func String(key, value string) Field             { return stringField{key, value} }
func Int(key string, value int) Field            { return intField{key, value} }
func Float64(key string, value float64) Field    { return float64Field{key, value} }
func Duration(key string, d time.Duration) Field { return durationField{key, d} }
func Error(key string, err error) Field          { return errorField{key, err} }

type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (NopLogger) With(...Field) Logger   { return NopLogger{} }

// WriterLogger emits one line per event to an io.Writer. It is the logger
// the CLI installs on stderr; library code defaults to NopLogger.
type WriterLogger struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
	base    []Field
}

// NewWriterLogger returns a line-oriented logger. Debug events are dropped
// unless verbose is set.
func NewWriterLogger(w io.Writer, verbose bool) *WriterLogger {
	return &WriterLogger{w: w, verbose: verbose}
}

func (l *WriterLogger) Debug(msg string, fields ...Field) {
	if !l.verbose {
		return
	}
	l.emit("DEBUG", msg, fields)
}

func (l *WriterLogger) Info(msg string, fields ...Field)  { l.emit("INFO", msg, fields) }
func (l *WriterLogger) Warn(msg string, fields ...Field)  { l.emit("WARN", msg, fields) }
func (l *WriterLogger) Error(msg string, fields ...Field) { l.emit("ERROR", msg, fields) }

func (l *WriterLogger) With(fields ...Field) Logger {
	child := &WriterLogger{w: l.w, verbose: l.verbose}
	child.base = append(append([]Field(nil), l.base...), fields...)
	return child
}

func (l *WriterLogger) emit(level, msg string, fields []Field) {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(level)
	b.WriteString("] ")
	b.WriteString(msg)
	for _, f := range l.base {
		fmt.Fprintf(&b, " %s=%v", f.Key(), f.Value())
	}
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key(), f.Value())
	}
	b.WriteByte('\n')
	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.w, b.String())
}

// Recorder receives named measurements from pipeline stages. Implementations
// can forward to any metrics backend; the library only calls Observe.
type Recorder interface {
	Observe(name string, value float64)
}

type nopRecorder struct{}

func (nopRecorder) Observe(string, float64) {}

// NopRecorder returns a recorder that does nothing.
func NopRecorder() Recorder { return nopRecorder{} }

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(name string, value float64)

func (f RecorderFunc) Observe(name string, value float64) { f(name, value) }

// Standard metric names emitted by the engine.
const (
	MetricPreprocessTime  = "ocr.preprocess.duration"
	MetricRegionCount     = "ocr.regions.count"
	MetricAttemptCount    = "ocr.attempts.count"
	MetricEscalationCount = "ocr.escalations.count"
	MetricPageConfidence  = "ocr.page.confidence"
	MetricPageTime        = "ocr.page.duration"
	MetricRenderTime      = "ocr.render.duration"
)
