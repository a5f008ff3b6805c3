package observability

import (
	"strings"
	"testing"
)

func TestWriterLoggerLevels(t *testing.T) {
	var buf strings.Builder
	log := NewWriterLogger(&buf, false)
	log.Debug("hidden")
	log.Info("loaded", String("path", "a.png"), Int("pages", 2))
	log.Error("failed", String("stage", "decode"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line emitted without verbose: %q", out)
	}
	if !strings.Contains(out, "[INFO] loaded path=a.png pages=2") {
		t.Fatalf("info line malformed: %q", out)
	}
	if !strings.Contains(out, "[ERROR] failed stage=decode") {
		t.Fatalf("error line missing: %q", out)
	}
}

func TestWriterLoggerVerboseAndWith(t *testing.T) {
	var buf strings.Builder
	log := NewWriterLogger(&buf, true).With(String("page", "1"))
	log.Debug("attempt", Int("psm", 6), Float64("conf", 81.5))

	out := buf.String()
	if !strings.Contains(out, "[DEBUG] attempt page=1 psm=6 conf=81.5") {
		t.Fatalf("unexpected debug line: %q", out)
	}
}

func TestNopRecorder(t *testing.T) {
	NopRecorder().Observe(MetricPageConfidence, 42)
}

func TestRecorderFunc(t *testing.T) {
	var gotName string
	var gotValue float64
	rec := RecorderFunc(func(name string, value float64) {
		gotName = name
		gotValue = value
	})
	rec.Observe(MetricAttemptCount, 12)
	if gotName != MetricAttemptCount || gotValue != 12 {
		t.Fatalf("recorder saw %q=%v", gotName, gotValue)
	}
}
