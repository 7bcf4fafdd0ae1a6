package perception

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"flyff-farm-bot/internal/clock"
	"flyff-farm-bot/internal/colormatch"
	"flyff-farm-bot/internal/geom"
)

var t0 = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

func fill(img *image.RGBA, x, y, w, h int, c color.RGBA) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			img.SetRGBA(xx, yy, c)
		}
	}
}

var (
	hpRed      = color.RGBA{174, 18, 55, 255}
	mpBlue     = color.RGBA{20, 84, 196, 255}
	passive    = color.RGBA{234, 234, 149, 255}
	aggressive = color.RGBA{179, 23, 23, 255}
	markerBlue = color.RGBA{131, 148, 205, 255}
	markerRed  = color.RGBA{246, 90, 106, 255}
)

func newTestAnalyzer(clk clock.Clock) *Analyzer {
	s := DefaultSettings()
	s.Workers = 4
	return NewAnalyzer(s, clk, testLogger())
}

func TestAnalyzeRequiresFrame(t *testing.T) {
	a := newTestAnalyzer(clock.NewMock(t0))
	if a.HasFrame() {
		t.Fatal("new analyzer should not have a frame")
	}
	if _, err := a.Analyze(context.Background()); !errors.Is(err, ErrNoFrame) {
		t.Fatalf("Analyze without frame: err = %v, want ErrNoFrame", err)
	}
	a.SetFrame(newFrame(800, 600))
	if !a.HasFrame() {
		t.Fatal("frame should be available")
	}
	a.SetFrame(nil)
	if _, err := a.Scan(context.Background()); !errors.Is(err, ErrNoFrame) {
		t.Fatalf("Scan after clearing frame: err = %v, want ErrNoFrame", err)
	}
}

func TestAnalyzeStatBars(t *testing.T) {
	clk := clock.NewMock(t0)
	a := newTestAnalyzer(clk)

	img := newFrame(800, 600)
	fill(img, 10, 20, 100, 4, hpRed)
	fill(img, 10, 30, 60, 4, mpBlue)
	a.SetFrame(img)

	snap, err := a.Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if snap.Stats.HP.Value != 100 || snap.Stats.HP.MaxW != 99 {
		t.Fatalf("HP = %+v, want value 100 max 99", snap.Stats.HP)
	}
	if !snap.Stats.IsAlive() {
		t.Fatal("player should be alive")
	}

	clk.Advance(time.Second)
	img = newFrame(800, 600)
	fill(img, 10, 20, 50, 4, hpRed)
	a.SetFrame(img)

	snap, err = a.Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if snap.Stats.HP.MaxW != 99 {
		t.Fatalf("max width shrank to %d", snap.Stats.HP.MaxW)
	}
	if want := 49 * 100 / 99; snap.Stats.HP.Value != want {
		t.Fatalf("HP value = %d, want %d", snap.Stats.HP.Value, want)
	}
	if !snap.Stats.HP.LastUpdate.Equal(t0.Add(time.Second)) {
		t.Fatalf("HP last update = %v", snap.Stats.HP.LastUpdate)
	}
	if snap.Stats.MP.Value != 0 {
		t.Fatalf("MP bar vanished, value = %d", snap.Stats.MP.Value)
	}
}

func TestAnalyzeMobsAndSizeFilter(t *testing.T) {
	a := newTestAnalyzer(clock.NewMock(t0))

	img := newFrame(800, 600)
	fill(img, 400, 300, 40, 3, passive)     // kept
	fill(img, 100, 200, 5, 3, passive)      // too narrow
	fill(img, 300, 400, 200, 2, aggressive) // too wide
	fill(img, 600, 150, 30, 2, aggressive)  // kept
	fill(img, 650, 550, 40, 3, passive)     // inside the ignored bottom band
	fill(img, 20, 40, 60, 3, passive)       // inside the status area
	a.SetFrame(img)

	snap, err := a.Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(snap.Mobs) != 2 {
		t.Fatalf("mobs = %v, want 2", snap.Mobs)
	}
	byType := map[MobType]geom.Bounds{}
	for _, m := range snap.Mobs {
		byType[m.Mob] = m.Bounds
	}
	if got := byType[MobPassive]; got != geom.Rect(400, 300, 39, 2) {
		t.Fatalf("passive bounds = %v", got)
	}
	if got := byType[MobAggressive]; got != geom.Rect(600, 150, 29, 1) {
		t.Fatalf("aggressive bounds = %v", got)
	}
}

func TestAnalyzeLargestMarker(t *testing.T) {
	a := newTestAnalyzer(clock.NewMock(t0))

	img := newFrame(800, 600)
	fill(img, 395, 250, 10, 10, markerBlue)
	fill(img, 600, 400, 5, 5, markerRed)
	a.SetFrame(img)

	snap, err := a.Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !snap.HasMarker {
		t.Fatal("marker not detected")
	}
	if snap.Marker.Bounds != geom.Rect(395, 250, 9, 9) {
		t.Fatalf("marker bounds = %v", snap.Marker.Bounds)
	}
	want := math.Hypot(400-399, 300-259)
	if math.Abs(snap.MarkerDistance-want) > 1e-9 {
		t.Fatalf("distance = %v, want %v", snap.MarkerDistance, want)
	}
	if !snap.Stats.TargetOnScreen {
		t.Fatal("target should be reported on screen")
	}
}

func TestMarkerNeedsEnoughPoints(t *testing.T) {
	a := newTestAnalyzer(clock.NewMock(t0))
	img := newFrame(800, 600)
	fill(img, 395, 250, 3, 3, markerBlue)
	a.SetFrame(img)

	snap, err := a.Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if snap.HasMarker {
		t.Fatalf("a 9 pixel blob should not count as a marker: %v", snap.Marker)
	}
}

func TestScanFirstCategoryWins(t *testing.T) {
	s := DefaultSettings()
	s.IgnoreBottom = 0
	s.Categories = []Category{
		{Name: "first", Kind: KindMover, Detection: colormatch.NewDetection(colormatch.RGB(100, 100, 100, 10))},
		{Name: "second", Kind: KindMover, Detection: colormatch.NewDetection(colormatch.RGB(105, 105, 105, 10))},
	}
	a := NewAnalyzer(s, clock.NewMock(t0), testLogger())

	img := newFrame(50, 50)
	fill(img, 0, 0, 10, 1, color.RGBA{102, 102, 102, 255})
	fill(img, 0, 5, 10, 1, color.RGBA{114, 114, 114, 255})
	a.SetFrame(img)

	clouds, err := a.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if clouds[0].Len() != 10 {
		t.Fatalf("first category got %d points, want 10", clouds[0].Len())
	}
	if clouds[1].Len() != 10 {
		t.Fatalf("second category got %d points, want 10", clouds[1].Len())
	}
	for _, p := range clouds[1].Points {
		if p.Y != 5 {
			t.Fatalf("second category claimed %v", p)
		}
	}
}

func TestScanSkipsTransparentPixels(t *testing.T) {
	s := DefaultSettings()
	s.IgnoreBottom = 0
	s.Categories = []Category{
		{Name: "c", Kind: KindMover, Detection: colormatch.NewDetection(colormatch.RGB(100, 100, 100, 0))},
	}
	a := NewAnalyzer(s, clock.NewMock(t0), testLogger())

	img := newFrame(20, 20)
	fill(img, 0, 0, 5, 1, color.RGBA{100, 100, 100, 255})
	fill(img, 0, 1, 5, 1, color.RGBA{100, 100, 100, 128})
	a.SetFrame(img)

	clouds, err := a.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if clouds[0].Len() != 5 {
		t.Fatalf("got %d points, want 5", clouds[0].Len())
	}
}

func TestScanWithTinyQueueDoesNotBlock(t *testing.T) {
	s := DefaultSettings()
	s.IgnoreBottom = 0
	s.ChannelCapacity = 1
	s.Workers = 8
	s.Categories = []Category{
		{Name: "all", Kind: KindMover, Detection: colormatch.NewDetection(colormatch.RGB(0, 0, 0, 0))},
	}
	a := NewAnalyzer(s, clock.NewMock(t0), testLogger())
	a.SetFrame(newFrame(200, 200))

	clouds, err := a.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if n := clouds[0].Len(); n == 0 || n > 200*200 {
		t.Fatalf("collected %d points", n)
	}
}

func TestScanHonoursCancellation(t *testing.T) {
	a := newTestAnalyzer(clock.NewMock(t0))
	a.SetFrame(newFrame(800, 600))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.Scan(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestRegionResolve(t *testing.T) {
	tests := []struct {
		name string
		r    Region
		want geom.Bounds
	}{
		{"full frame", FullFrame, geom.Rect(0, 0, 800, 600)},
		{"absolute", Region{MinX: 0, MinY: 0, MaxX: 250, MaxY: 110}, geom.Rect(0, 0, 250, 110)},
		{"relative right edge", Region{MinX: 250, MinY: 0, MaxX: -250, MaxY: 60}, geom.Rect(250, 0, 300, 60)},
		{"clipped", Region{MinX: 700, MinY: 500, MaxX: 900, MaxY: 900}, geom.Rect(700, 500, 100, 100)},
		{"inverted", Region{MinX: 500, MaxX: 100}, geom.Bounds{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Resolve(800, 600); got != tt.want {
				t.Fatalf("Resolve = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNearestMob(t *testing.T) {
	center := geom.Pt(400, 300)
	near := Target{Mob: MobPassive, Bounds: geom.Rect(380, 250, 40, 3)}
	far := Target{Mob: MobPassive, Bounds: geom.Rect(100, 100, 40, 3)}
	mid := Target{Mob: MobAggressive, Bounds: geom.Rect(480, 320, 40, 3)}
	mobs := []Target{far, mid, near}

	got, ok := NearestMob(mobs, center, 325, nil)
	if !ok || got != near {
		t.Fatalf("NearestMob = %v,%v want %v", got, ok, near)
	}

	avoided := []geom.Bounds{geom.Rect(near.AttackCoords().X-1, near.AttackCoords().Y-1, 2, 2)}
	got, ok = NearestMob(mobs, center, 325, avoided)
	if !ok || got != mid {
		t.Fatalf("NearestMob with avoided = %v,%v want %v", got, ok, mid)
	}

	if _, ok := NearestMob([]Target{far}, center, 325, nil); ok {
		t.Fatal("mob beyond the distance cap should not be selected")
	}
}

func TestAttackCoords(t *testing.T) {
	tgt := Target{Bounds: geom.Rect(100, 200, 40, 4)}
	if got, want := tgt.AttackCoords(), geom.Pt(120, 204+AttackCoordsMargin); got != want {
		t.Fatalf("AttackCoords = %v, want %v", got, want)
	}
}
