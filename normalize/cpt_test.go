package normalize

import (
	"testing"

	"github.com/wudi/ocrkit/segment"
)

func TestCodeHomoglyphRepair(t *testing.T) {
	n := testNormalizer()
	if got := n.Correct("O58O6", segment.KindProcedure); got != "05806" {
		t.Fatalf("Correct(O58O6) = %q, want 05806", got)
	}
}

func TestCodeDollarSignMisread(t *testing.T) {
	n := testNormalizer()
	if got := n.Correct("CPT: $5810", segment.KindBody); got != "CPT: 55810" {
		t.Fatalf("got %q, want CPT: 55810", got)
	}
}

func TestCodeFourDigitPadNeedsLabel(t *testing.T) {
	n := testNormalizer()
	if got := n.Correct("CPT code 9581", segment.KindBody); got != "CPT code 09581" {
		t.Fatalf("labeled pad: got %q", got)
	}
	// Without a label in the text the pad is too speculative, even inside a
	// procedure region.
	if got := n.Correct("9581", segment.KindProcedure); got != "9581" {
		t.Fatalf("unlabeled pad: got %q", got)
	}
}

func TestCodeRepairGatedByKindOrLabel(t *testing.T) {
	n := testNormalizer()
	if got := n.Correct("room O58O6 east wing", segment.KindBody); got != "room O58O6 east wing" {
		t.Fatalf("unlabeled body text must stay untouched, got %q", got)
	}
}

func TestCodeSixDigitRunUntouched(t *testing.T) {
	n := testNormalizer()
	if got := n.Correct("CPT 958107", segment.KindBody); got != "CPT 958107" {
		t.Fatalf("got %q, want six-digit run left alone", got)
	}
}

func TestCodeFinalSweepInsideTokens(t *testing.T) {
	n := testNormalizer()
	if got := n.Correct("CPT X9581O", segment.KindBody); got != "CPT X95810" {
		t.Fatalf("got %q, want CPT X95810", got)
	}
}

func TestCleanToken(t *testing.T) {
	cases := map[string]string{
		"$5810": "55810",
		"O58O6": "05806",
		"9l8S3": "91853",
		"12345": "12345",
	}
	for in, want := range cases {
		if got := cleanToken(in); got != want {
			t.Errorf("cleanToken(%q) = %q, want %q", in, got, want)
		}
	}
}
