package raster

import (
	"image"
	"image/color"
	"testing"
)

func TestRotateQuarterTurn(t *testing.T) {
	img := uniformGray(51, 51, 0)
	for x := 5; x < 46; x++ {
		img.SetGray(x, 25, color.Gray{Y: 255})
	}
	out := Rotate(img, 90)
	if out.GrayAt(25, 10).Y < 200 {
		t.Fatalf("rotated line missing at (25,10): %d", out.GrayAt(25, 10).Y)
	}
	if out.GrayAt(10, 10).Y > 50 {
		t.Fatalf("unexpected content at (10,10): %d", out.GrayAt(10, 10).Y)
	}
}

func TestRotateZeroIsIdentity(t *testing.T) {
	img := uniformGray(10, 10, 30)
	img.SetGray(3, 7, color.Gray{Y: 250})
	out := Rotate(img, 0)
	if out.GrayAt(3, 7).Y != 250 || out.GrayAt(0, 0).Y != 30 {
		t.Fatalf("zero rotation changed pixels")
	}
}

func TestRotateReplicatesBorder(t *testing.T) {
	img := uniformGray(40, 40, 200)
	out := Rotate(img, 7)
	for _, p := range []image.Point{{0, 0}, {39, 0}, {0, 39}, {39, 39}} {
		if out.GrayAt(p.X, p.Y).Y != 200 {
			t.Fatalf("corner %v filled with %d instead of replicated edge", p, out.GrayAt(p.X, p.Y).Y)
		}
	}
}

func TestUpscale2x(t *testing.T) {
	img := uniformGray(20, 30, 128)
	out := Upscale2x(img)
	if out.Bounds().Dx() != 40 || out.Bounds().Dy() != 60 {
		t.Fatalf("unexpected bounds: %v", out.Bounds())
	}
	if out.GrayAt(20, 30).Y != 128 {
		t.Fatalf("uniform upscale changed value to %d", out.GrayAt(20, 30).Y)
	}
}

func TestResize(t *testing.T) {
	img := uniformGray(16, 16, 64)
	out := Resize(img, 8, 4)
	if out.Bounds().Dx() != 8 || out.Bounds().Dy() != 4 {
		t.Fatalf("unexpected bounds: %v", out.Bounds())
	}
}
