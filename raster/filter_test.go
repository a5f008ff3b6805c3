package raster

import (
	"image/color"
	"testing"
)

func TestGaussianBlurSpreadsSpike(t *testing.T) {
	img := uniformGray(21, 21, 0)
	img.SetGray(10, 10, color.Gray{Y: 255})
	out := GaussianBlur(img, 1.5)
	center := out.GrayAt(10, 10).Y
	neighbor := out.GrayAt(11, 10).Y
	if center == 255 {
		t.Fatalf("spike not attenuated")
	}
	if neighbor == 0 {
		t.Fatalf("energy did not spread to neighbor")
	}
	if neighbor > center {
		t.Fatalf("neighbor %d brighter than center %d", neighbor, center)
	}
}

func TestGaussianBlurUniformUnchanged(t *testing.T) {
	img := uniformGray(16, 16, 90)
	out := GaussianBlur(img, 2.0)
	if v := out.GrayAt(8, 8).Y; v != 90 {
		t.Fatalf("uniform image blurred to %d", v)
	}
}

func TestMedianRemovesImpulse(t *testing.T) {
	img := uniformGray(9, 9, 128)
	img.SetGray(4, 4, color.Gray{Y: 255})
	out := Median(img, 1)
	if out.GrayAt(4, 4).Y != 128 {
		t.Fatalf("impulse survived median: %d", out.GrayAt(4, 4).Y)
	}
}

func TestDenoiseStrengthSelectsWindow(t *testing.T) {
	img := uniformGray(11, 11, 50)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			img.SetGray(5+dx, 5+dy, color.Gray{Y: 255})
		}
	}
	weak := Denoise(img, 10)
	if weak.GrayAt(5, 5).Y != 255 {
		t.Fatalf("3x3 blob should survive the small window")
	}
	strong := Denoise(img, 20)
	if strong.GrayAt(5, 5).Y != 50 {
		t.Fatalf("3x3 blob should be removed by the wide window, got %d", strong.GrayAt(5, 5).Y)
	}
}

func TestBilateralPreservesEdge(t *testing.T) {
	img := uniformGray(20, 20, 0)
	for y := 0; y < 20; y++ {
		for x := 10; x < 20; x++ {
			img.SetGray(x, y, color.Gray{Y: 200})
		}
	}
	out := Bilateral(img, 9, 75, 75)
	left := out.GrayAt(8, 10).Y
	right := out.GrayAt(11, 10).Y
	if left > 40 {
		t.Fatalf("dark side washed out to %d", left)
	}
	if right < 160 {
		t.Fatalf("bright side washed out to %d", right)
	}
}

func TestUnsharpUniformUnchanged(t *testing.T) {
	img := uniformGray(12, 12, 120)
	out := Unsharp(img, 2.0, 2.0)
	if v := out.GrayAt(6, 6).Y; v != 120 {
		t.Fatalf("uniform image sharpened to %d", v)
	}
}

func TestUnsharpBoostsEdgeContrast(t *testing.T) {
	img := uniformGray(20, 20, 100)
	for y := 0; y < 20; y++ {
		for x := 10; x < 20; x++ {
			img.SetGray(x, y, color.Gray{Y: 160})
		}
	}
	out := Unsharp(img, 2.0, 2.0)
	if out.GrayAt(9, 10).Y >= 100 {
		t.Fatalf("dark side of edge not darkened: %d", out.GrayAt(9, 10).Y)
	}
	if out.GrayAt(10, 10).Y <= 160 {
		t.Fatalf("bright side of edge not brightened: %d", out.GrayAt(10, 10).Y)
	}
}
