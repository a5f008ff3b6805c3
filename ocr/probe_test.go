package ocr

import (
	"context"
	"errors"
	"testing"
)

type scriptedEngine struct {
	res     Result
	err     error
	lastCfg Config
}

func (s *scriptedEngine) Name() string { return "scripted" }

func (s *scriptedEngine) Transcribe(ctx context.Context, image []byte, cfg Config) (Result, error) {
	s.lastCfg = cfg
	return s.res, s.err
}

func TestProbeUsesSingleWordMode(t *testing.T) {
	eng := &scriptedEngine{res: Result{Text: "  Name:  \n"}}
	got := Probe(context.Background(), eng, []byte("png"))
	if got != "Name:" {
		t.Fatalf("Probe = %q, want %q", got, "Name:")
	}
	if eng.lastCfg.PSM != PSMSingleWord {
		t.Fatalf("probe PSM = %d, want %d", eng.lastCfg.PSM, PSMSingleWord)
	}
}

func TestProbeSwallowsEngineErrors(t *testing.T) {
	eng := &scriptedEngine{err: errors.New("boom")}
	if got := Probe(context.Background(), eng, nil); got != "" {
		t.Fatalf("Probe on error = %q, want empty", got)
	}
}
