package colormatch

import (
	"image/color"
	"testing"
)

func TestRGBTolerance(t *testing.T) {
	ref := RGB(131, 148, 205, 5)

	tests := []struct {
		name string
		px   color.RGBA
		want bool
	}{
		{"exact", color.RGBA{131, 148, 205, 255}, true},
		{"edge of tolerance", color.RGBA{136, 143, 200, 255}, true},
		{"one channel outside", color.RGBA{137, 148, 205, 255}, false},
		{"far", color.RGBA{0, 0, 0, 255}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ref.Match(tt.px); got != tt.want {
				t.Fatalf("Match(%v) = %v, want %v", tt.px, got, tt.want)
			}
		})
	}
}

func TestToHSV(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		want    HSV
	}{
		{255, 0, 0, HSV{0, 255, 255}},
		{0, 255, 0, HSV{120, 255, 255}},
		{0, 0, 255, HSV{240, 255, 255}},
		{255, 255, 255, HSV{0, 0, 255}},
		{0, 0, 0, HSV{0, 0, 0}},
		{255, 0, 128, HSV{330, 255, 255}},
	}
	for _, tt := range tests {
		if got := ToHSV(tt.r, tt.g, tt.b); got != tt.want {
			t.Errorf("ToHSV(%d,%d,%d) = %+v, want %+v", tt.r, tt.g, tt.b, got, tt.want)
		}
	}
}

func TestHSVMatch(t *testing.T) {
	green := HSVColor(120, 255, 255, 10, 40, 40)
	if !green.MatchRGB(10, 240, 10) {
		t.Fatal("bright green should match")
	}
	if green.MatchRGB(10, 10, 240) {
		t.Fatal("blue should not match green")
	}
}

func TestHSVHueDoesNotWrap(t *testing.T) {
	// Hue 355 vs reference 5: circular distance is 10 but the comparison is
	// a plain difference of 350.
	red := HSVColor(5, 255, 255, 15, 10, 10)
	if red.MatchRGB(255, 0, 21) {
		t.Fatal("hue near 360 must not match a reference near 0")
	}
	if !red.MatchRGB(255, 21, 0) {
		t.Fatal("hue near 5 should match")
	}
}

func TestDetectionAnyOf(t *testing.T) {
	d := NewDetection(RGB(174, 18, 55, 2), RGB(220, 36, 78, 2))

	if !d.MatchRGB(219, 37, 77) {
		t.Fatal("second reference color should match")
	}
	if d.MatchRGB(200, 30, 70) {
		t.Fatal("pixel between references should not match")
	}
	if NewDetection().MatchRGB(0, 0, 0) {
		t.Fatal("empty detection never matches")
	}
}

func TestMatchDoesNotAllocate(t *testing.T) {
	d := NewDetection(RGB(1, 2, 3, 4), HSVColor(100, 100, 100, 5, 5, 5))
	allocs := testing.AllocsPerRun(100, func() {
		d.MatchRGB(10, 20, 30)
	})
	if allocs != 0 {
		t.Fatalf("MatchRGB allocated %v times per call", allocs)
	}
}

func BenchmarkDetectionMatch(b *testing.B) {
	d := NewDetection(
		RGB(174, 18, 55, 2), RGB(188, 24, 62, 2), RGB(204, 30, 70, 2), RGB(220, 36, 78, 2),
	)
	for i := 0; i < b.N; i++ {
		d.MatchRGB(uint8(i), uint8(i>>8), uint8(i>>16))
	}
}
