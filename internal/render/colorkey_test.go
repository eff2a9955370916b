package render

import (
	"image"
	"image/color"
	"testing"
)

func TestIsKeyBackground(t *testing.T) {
	tests := []struct {
		name string
		c    color.NRGBA
		want bool
	}{
		{"purple", color.NRGBA{120, 80, 125, 255}, true},
		{"green screen", color.NRGBA{130, 200, 100, 255}, true},
		{"white", color.NRGBA{250, 248, 252, 255}, true},
		{"light gray below threshold", color.NRGBA{230, 230, 230, 255}, false},
		{"red monster", color.NRGBA{200, 30, 30, 255}, false},
		{"dark purple", color.NRGBA{60, 20, 70, 255}, false},
		{"pure green", color.NRGBA{0, 255, 0, 255}, false},
	}
	for _, tt := range tests {
		if got := isKeyBackground(tt.c); got != tt.want {
			t.Errorf("%s: isKeyBackground(%v) = %v, want %v", tt.name, tt.c, got, tt.want)
		}
	}
}

func TestKeyBackground_EdgeSoftening(t *testing.T) {
	bg := color.NRGBA{255, 255, 255, 255}
	fg := color.NRGBA{200, 30, 30, 255}
	img := image.NewNRGBA(image.Rect(0, 0, 12, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			img.SetNRGBA(x, y, bg)
		}
	}
	img.SetNRGBA(6, 6, fg)

	out := KeyBackground(img)
	tests := []struct {
		x, y  int
		alpha uint8
	}{
		{6, 6, 255}, // subject untouched
		{5, 6, 80},  // neighbour
		{8, 8, 80},  // diagonal, radius 2
		{9, 6, 0},   // radius 3
		{0, 0, 0},   // far corner
		{11, 11, 0}, // far corner
	}
	for _, tt := range tests {
		if got := out.NRGBAAt(tt.x, tt.y).A; got != tt.alpha {
			t.Errorf("alpha at (%d,%d) = %d, want %d", tt.x, tt.y, got, tt.alpha)
		}
	}
	if got := out.NRGBAAt(6, 6); got != fg {
		t.Errorf("subject pixel = %v, want %v", got, fg)
	}
}

func TestKeyBackground_OffsetBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 10, 14, 14))
	for y := 10; y < 14; y++ {
		for x := 10; x < 14; x++ {
			img.SetNRGBA(x, y, color.NRGBA{130, 200, 100, 255})
		}
	}
	out := KeyBackground(img)
	if out.Bounds() != image.Rect(0, 0, 4, 4) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	if a := out.NRGBAAt(0, 0).A; a != 0 {
		t.Errorf("alpha = %d, want 0 for an all-background image", a)
	}
}
