package main

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"flyff-farm-bot/internal/geom"
)

func TestDrawRectClipsToImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	red := color.RGBA{R: 255, A: 255}

	drawRect(img, geom.Rect(15, 15, 10, 10), red, 2)

	if img.RGBAAt(15, 16) != red || img.RGBAAt(16, 19) != red {
		t.Fatal("visible edges not drawn")
	}
	if img.RGBAAt(18, 18) == red {
		t.Fatal("interior painted")
	}
}

func TestTrainingModeWritesResult(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "train.png")
	out := filepath.Join(dir, "result.png")

	frame := image.NewRGBA(image.Rect(0, 0, 800, 600))
	for y := 300; y < 310; y++ {
		for x := 300; x < 360; x++ {
			frame.SetRGBA(x, y, color.RGBA{R: 234, G: 234, B: 149, A: 255})
		}
	}
	if err := savePNG(in, frame); err != nil {
		t.Fatal(err)
	}

	if err := TrainingMode(filepath.Join(dir, "config.yaml"), in, out); err != nil {
		t.Fatalf("TrainingMode: %v", err)
	}
	result, err := loadPNG(out)
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if result.Bounds() != frame.Bounds() {
		t.Fatalf("result bounds = %v", result.Bounds())
	}
	// Mob outline in the passive colour, interior untouched.
	if got := result.RGBAAt(300, 300); got != passiveColor {
		t.Fatalf("outline pixel = %v", got)
	}
}
