// Package main - train.go
//
// Offline mode for tuning detection without a running client.
//
// Usage:
//  1. Save a screenshot as train.png in the working directory
//  2. Run: flyff-farm-bot --train
//  3. Inspect result.png (boxes and labels) and Debug.log (per-frame details)
//
// The frame goes through the same pipeline the bot uses, with the
// perception settings from config.yaml.
package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"flyff-farm-bot/internal/clock"
	"flyff-farm-bot/internal/config"
	"flyff-farm-bot/internal/geom"
	"flyff-farm-bot/internal/perception"
)

var (
	passiveColor    = color.RGBA{R: 234, G: 234, B: 149, A: 255}
	aggressiveColor = color.RGBA{R: 179, G: 23, B: 23, A: 255}
	markerColor     = color.RGBA{R: 131, G: 148, B: 205, A: 255}
	regionColor     = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	textColor       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// TrainingMode analyzes inPath and writes the annotated frame to outPath.
func TrainingMode(configPath, inPath, outPath string) error {
	LogInfo("=== Training Mode Started ===")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	img, err := loadPNG(inPath)
	if err != nil {
		return fmt.Errorf("load %s: %w", inPath, err)
	}
	LogInfo("Image loaded: %dx%d", img.Bounds().Dx(), img.Bounds().Dy())

	settings := cfg.Perception.Settings()
	analyzer := perception.NewAnalyzer(settings, clock.New(), Logger().With("component", "perception"))
	analyzer.SetFrame(img)
	snap, err := analyzer.Analyze(context.Background())
	if err != nil {
		return err
	}

	stats := snap.Stats
	LogInfo("Found %d mobs", len(snap.Mobs))
	LogInfo("HP: %d%%, MP: %d%%, FP: %d%%", stats.HP.Value, stats.MP.Value, stats.FP.Value)
	LogInfo("Target HP: %d%%, Target MP: %d%%", stats.TargetHP.Value, stats.TargetMP.Value)
	LogInfo("Target marker detected: %v (distance %.1f)", snap.HasMarker, snap.MarkerDistance)

	result := drawDetectionResults(img, snap, settings)
	if err := savePNG(outPath, result); err != nil {
		return fmt.Errorf("save %s: %w", outPath, err)
	}
	LogInfo("=== Training Mode Completed, see %s ===", outPath)
	return nil
}

func loadPNG(path string) (*image.RGBA, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return nil, err
	}
	return toRGBA(img), nil
}

func savePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// drawDetectionResults returns a copy of img with stat regions, mobs and
// the target marker outlined and labelled.
func drawDetectionResults(img *image.RGBA, snap perception.Snapshot, s perception.Settings) *image.RGBA {
	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)
	w, h := bounds.Dx(), bounds.Dy()

	seen := make(map[geom.Bounds]bool)
	for _, c := range s.Categories {
		if c.Kind != perception.KindStat {
			continue
		}
		region := c.Region.Resolve(w, h)
		if !seen[region] {
			drawRect(result, region, regionColor, 1)
			seen[region] = true
		}
	}

	stats := snap.Stats
	lines := []string{
		fmt.Sprintf("HP %d%%  MP %d%%  FP %d%%", stats.HP.Value, stats.MP.Value, stats.FP.Value),
		fmt.Sprintf("Target HP %d%%  MP %d%%", stats.TargetHP.Value, stats.TargetMP.Value),
		fmt.Sprintf("Mobs %d  width %d..%d", len(snap.Mobs), s.MobMinWidth, s.MobMaxWidth),
	}
	for i, line := range lines {
		drawText(result, 10, 130+i*16, line, textColor)
	}

	for i, mob := range snap.Mobs {
		col, label := passiveColor, "Passive"
		if mob.Mob == perception.MobAggressive {
			col, label = aggressiveColor, "Aggressive"
		}
		drawRect(result, mob.Bounds, col, 2)
		drawText(result, mob.Bounds.X, mob.Bounds.Y-4, fmt.Sprintf("#%d %s (%dx%d)", i+1, label, mob.Bounds.W, mob.Bounds.H), col)
	}

	if snap.HasMarker {
		m := snap.Marker.Bounds
		drawRect(result, m, markerColor, 2)
		drawText(result, m.X, m.Y+m.H+14, fmt.Sprintf("Marker %.0fpx", snap.MarkerDistance), markerColor)
	}
	return result
}

// drawRect outlines b with the given line thickness, clipped to img.
func drawRect(img *image.RGBA, b geom.Bounds, col color.RGBA, thickness int) {
	r := image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
	src := image.NewUniform(col)
	for _, edge := range []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness),
		image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y),
		image.Rect(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Max.Y),
	} {
		draw.Draw(img, edge.Intersect(img.Bounds()), src, image.Point{}, draw.Src)
	}
}

// drawText writes text with its baseline at y on a darkened backdrop.
func drawText(img *image.RGBA, x, y int, text string, col color.RGBA) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}

	width := d.MeasureString(text).Ceil()
	metrics := face.Metrics()
	backdrop := image.Rect(x-1, y-metrics.Ascent.Ceil()-1, x+width+1, y+metrics.Descent.Ceil()+1)
	draw.Draw(img, backdrop.Intersect(img.Bounds()), image.NewUniform(color.RGBA{A: 160}), image.Point{}, draw.Over)

	d.DrawString(text)
}
