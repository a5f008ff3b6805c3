package normalize

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wudi/ocrkit/segment"
)

// testNormalizer pins the clock so two-digit year expansion is stable.
func testNormalizer() *Normalizer {
	n := New(DefaultLexicon())
	n.now = func() time.Time { return time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC) }
	return n
}

func TestCorrectTerms(t *testing.T) {
	n := testNormalizer()
	cases := map[string]string{
		"Patieni Name":       "patient Name",
		"lnsurance carrier":  "insurance carrier",
		"DLAGNOSIS: sleep":   "diagnosis: sleep",
		"symptorns reported": "symptoms reported",
		"no changes here":    "no changes here",
	}
	for in, want := range cases {
		if got := n.Correct(in, segment.KindBody); got != want {
			t.Errorf("Correct(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCorrectCarrierFuzzy(t *testing.T) {
	n := testNormalizer()
	got := n.Correct("Insurance: aetna Cigma", segment.KindInsurance)
	want := "Insurance: Aetna Cigna"
	if got != want {
		t.Fatalf("Correct = %q, want %q", got, want)
	}
}

func TestCarrierRepairOnlyForInsurance(t *testing.T) {
	n := testNormalizer()
	if got := n.Correct("aetna", segment.KindBody); got != "aetna" {
		t.Fatalf("body text must not get carrier repair, got %q", got)
	}
}

func TestCorrectEmptyText(t *testing.T) {
	if got := testNormalizer().Correct("", segment.KindBody); got != "" {
		t.Fatalf("empty in, %q out", got)
	}
}

func TestRatio(t *testing.T) {
	if got := ratio("aetna", "Aetna"); got != 0.8 {
		t.Errorf("ratio(aetna, Aetna) = %v, want 0.8", got)
	}
	if got := ratio("same", "same"); got != 1 {
		t.Errorf("identical strings = %v, want 1", got)
	}
	if got := ratio("", ""); got != 1 {
		t.Errorf("two empties = %v, want 1", got)
	}
	if got := ratio("abc", "xyz"); got != 0 {
		t.Errorf("disjoint strings = %v, want 0", got)
	}
}

func TestDefaultLexicon(t *testing.T) {
	lex := DefaultLexicon()
	if lex.ConfidenceFloor != 20 {
		t.Errorf("floor = %v, want 20", lex.ConfidenceFloor)
	}
	if lex.DateYearMin != 1900 || lex.DateYearMax != 2030 {
		t.Errorf("year bounds = %d..%d", lex.DateYearMin, lex.DateYearMax)
	}
	if len(lex.Carriers) != 12 {
		t.Errorf("carriers = %d, want 12", len(lex.Carriers))
	}
	if lex.Terms["patieni"] != "patient" {
		t.Errorf("terms table incomplete: %v", lex.Terms)
	}
}

func TestLoadLexiconMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	override := "confidence_floor: 35\nterms:\n  refferal: referral\n"
	if err := os.WriteFile(path, []byte(override), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	lex, err := LoadLexicon(path)
	if err != nil {
		t.Fatalf("LoadLexicon: %v", err)
	}
	if lex.ConfidenceFloor != 35 {
		t.Errorf("floor = %v, want override 35", lex.ConfidenceFloor)
	}
	if lex.Terms["refferal"] != "referral" {
		t.Errorf("override term missing")
	}
	if lex.Terms["patieni"] != "patient" {
		t.Errorf("default terms must survive the merge")
	}
	if len(lex.Carriers) != 12 {
		t.Errorf("default carriers must survive the merge")
	}
}

func TestLoadLexiconMissingFile(t *testing.T) {
	if _, err := LoadLexicon(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error")
	}
}
