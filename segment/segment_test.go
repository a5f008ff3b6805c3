package segment

import (
	"image"
	"image/color"
	"testing"
)

func whitePage(w, h int) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = 255
	}
	return g
}

func fillRect(g *image.Gray, r image.Rectangle, v uint8) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			g.SetGray(x, y, color.Gray{Y: v})
		}
	}
}

func TestClassify(t *testing.T) {
	const pageHeight = 300
	cases := []struct {
		name  string
		probe string
		y     int
		want  Kind
		conf  float64
	}{
		{"name keyword", "Patient Name: John Smith", 20, KindPatientName, 0.9},
		{"insurance keyword", "INSURANCE: Aetna PPO", 50, KindInsurance, 0.9},
		{"top positional", "Radiology Associates", 20, KindHeader, 0.5},
		{"top empty probe", "   ", 20, KindHeader, 0.25},
		{"cpt keyword", "CPT 95810", 120, KindProcedure, 0.9},
		{"middle positional", "clinical history follows", 150, KindBody, 0.5},
		{"middle empty probe", "", 120, KindBody, 0.25},
		{"bottom ignores probe", "name insurance cpt", 250, KindFooter, 0.5},
	}
	for _, tc := range cases {
		box := image.Rect(10, tc.y, 200, tc.y+30)
		kind, conf := Classify(tc.probe, box, pageHeight)
		if kind != tc.want || conf != tc.conf {
			t.Errorf("%s: got (%s, %.2f), want (%s, %.2f)", tc.name, kind, conf, tc.want, tc.conf)
		}
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindHeader:       "header",
		KindPatientName:  "patient_name",
		KindInsurance:    "insurance",
		KindProcedure:    "procedure",
		KindBody:         "body",
		KindFooter:       "footer",
		KindFullDocument: "full_document",
		KindUnknown:      "unknown",
		Kind(99):         "unknown",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}

func TestDetectGatesAndOrder(t *testing.T) {
	g := whitePage(400, 300)
	fillRect(g, image.Rect(50, 40, 250, 70), 0)   // keeper, top third
	fillRect(g, image.Rect(280, 45, 295, 52), 0)  // too small
	fillRect(g, image.Rect(20, 100, 360, 130), 0) // wider than 80% of page
	fillRect(g, image.Rect(30, 140, 90, 295), 0)  // taller than half the page
	fillRect(g, image.Rect(120, 200, 240, 230), 0)

	regions := Detect(g, nil)
	if len(regions) != 3 {
		t.Fatalf("got %d regions, want 3: %+v", len(regions), regions)
	}
	if regions[0].Box != image.Rect(50, 40, 250, 70) || regions[0].Kind != KindHeader {
		t.Errorf("first region = %+v, want header at (50,40)-(250,70)", regions[0])
	}
	if regions[0].KindConfidence != 0.25 {
		t.Errorf("probe-less header confidence = %v, want 0.25", regions[0].KindConfidence)
	}
	if regions[1].Box != image.Rect(120, 200, 240, 230) || regions[1].Kind != KindFooter {
		t.Errorf("second region = %+v, want footer at (120,200)-(240,230)", regions[1])
	}
	last := regions[len(regions)-1]
	if last.Kind != KindFullDocument || last.Box != image.Rect(0, 0, 400, 300) || last.KindConfidence != 1 {
		t.Errorf("full-page region = %+v", last)
	}
}

func TestDetectProbeClassifies(t *testing.T) {
	g := whitePage(400, 300)
	fillRect(g, image.Rect(40, 30, 200, 60), 0)   // probe says name
	fillRect(g, image.Rect(40, 80, 220, 110), 0)  // probe says insurance
	fillRect(g, image.Rect(50, 220, 200, 250), 0) // bottom, never probed

	calls := 0
	probe := func(region *image.Gray) (string, error) {
		calls++
		switch region.Bounds().Dx() {
		case 160:
			return "Name: Smith, John", nil
		case 180:
			return "Insurance ID 12345", nil
		default:
			t.Fatalf("probed unexpected region %v", region.Bounds())
			return "", nil
		}
	}

	regions := Detect(g, probe)
	if calls != 2 {
		t.Fatalf("probe called %d times, want 2", calls)
	}
	if len(regions) != 4 {
		t.Fatalf("got %d regions, want 4", len(regions))
	}
	if regions[0].Kind != KindPatientName || regions[0].KindConfidence != 0.9 {
		t.Errorf("first region = %+v, want patient_name at 0.9", regions[0])
	}
	if regions[1].Kind != KindInsurance || regions[1].KindConfidence != 0.9 {
		t.Errorf("second region = %+v, want insurance at 0.9", regions[1])
	}
	if regions[2].Kind != KindFooter {
		t.Errorf("third region = %+v, want footer", regions[2])
	}
}

func TestDetectFoldsNestedComponents(t *testing.T) {
	g := whitePage(400, 300)
	// Bordered field: a 4px outline with a text-like blob inside.
	fillRect(g, image.Rect(60, 60, 220, 140), 0)
	fillRect(g, image.Rect(64, 64, 216, 136), 255)
	fillRect(g, image.Rect(100, 90, 170, 115), 0)

	regions := Detect(g, nil)
	if len(regions) != 2 {
		t.Fatalf("got %d regions, want outline plus full page: %+v", len(regions), regions)
	}
	if regions[0].Box != image.Rect(60, 60, 220, 140) {
		t.Errorf("outline box = %v, want (60,60)-(220,140)", regions[0].Box)
	}
}

func TestDetectBlankPage(t *testing.T) {
	regions := Detect(whitePage(200, 160), nil)
	if len(regions) != 1 {
		t.Fatalf("got %d regions, want only the full page", len(regions))
	}
	if regions[0].Kind != KindFullDocument || regions[0].Box != image.Rect(0, 0, 200, 160) {
		t.Errorf("region = %+v", regions[0])
	}
}
