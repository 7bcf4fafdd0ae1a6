package perception

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"flyff-farm-bot/internal/clock"
	"flyff-farm-bot/internal/geom"
)

// ErrNoFrame is returned by detection calls made before a frame was set.
var ErrNoFrame = errors.New("perception: no frame")

// Settings configures a scan.
type Settings struct {
	// IgnoreTop and IgnoreBottom drop rows covered by window chrome.
	IgnoreTop    int
	IgnoreBottom int

	// MinAlpha skips pixels that are not fully drawn.
	MinAlpha uint8

	// ChannelCapacity bounds the queue between row workers and the
	// collector. A full queue drops pixels.
	ChannelCapacity int
	Workers         int

	ClusterGapX int
	ClusterGapY int

	// Mob name plates must be strictly wider than MobMinWidth and strictly
	// narrower than MobMaxWidth.
	MobMinWidth int
	MobMaxWidth int

	MarkerMinPoints int

	Categories []Category
}

// DefaultSettings returns settings tuned for an 800×600 client.
func DefaultSettings() Settings {
	return Settings{
		IgnoreTop:       0,
		IgnoreBottom:    100,
		MinAlpha:        250,
		ChannelCapacity: 1 << 16,
		Workers:         runtime.GOMAXPROCS(0),
		ClusterGapX:     50,
		ClusterGapY:     3,
		MobMinWidth:     11,
		MobMaxWidth:     180,
		MarkerMinPoints: 20,
		Categories:      DefaultCategories(),
	}
}

// Analyzer owns the current frame and the stat bars that persist between
// frames. It is driven from a single goroutine; only the row scan inside
// Scan fans out.
type Analyzer struct {
	settings Settings
	clock    clock.Clock
	log      *slog.Logger

	frame *image.RGBA
	stats ClientStats
}

// NewAnalyzer returns an analyzer with empty stat bars.
func NewAnalyzer(settings Settings, clk clock.Clock, log *slog.Logger) *Analyzer {
	if settings.Workers <= 0 {
		settings.Workers = runtime.GOMAXPROCS(0)
	}
	if settings.ChannelCapacity <= 0 {
		settings.ChannelCapacity = 1
	}
	return &Analyzer{settings: settings, clock: clk, log: log}
}

// SetSettings replaces the scan settings. Stat bar history is kept.
func (a *Analyzer) SetSettings(settings Settings) {
	if settings.Workers <= 0 {
		settings.Workers = runtime.GOMAXPROCS(0)
	}
	if settings.ChannelCapacity <= 0 {
		settings.ChannelCapacity = 1
	}
	a.settings = settings
}

// SetFrame installs the frame used by the next detection calls. A nil frame
// clears it.
func (a *Analyzer) SetFrame(img *image.RGBA) {
	a.frame = img
}

// HasFrame reports whether a frame is available. Detection calls fail with
// ErrNoFrame otherwise.
func (a *Analyzer) HasFrame() bool {
	return a.frame != nil && a.frame.Bounds().Dx() > 0 && a.frame.Bounds().Dy() > 0
}

type hit struct {
	cat  int
	x, y int
}

type zone struct {
	area    geom.Bounds
	exclude []geom.Bounds
}

func (z *zone) contains(x, y int) bool {
	if x < z.area.X || x >= z.area.X+z.area.W || y < z.area.Y || y >= z.area.Y+z.area.H {
		return false
	}
	for _, ex := range z.exclude {
		if x >= ex.X && x < ex.X+ex.W && y >= ex.Y && y < ex.Y+ex.H {
			return false
		}
	}
	return true
}

// Scan classifies every pixel of the current frame and returns one point
// cloud per category, indexed like Settings.Categories.
func (a *Analyzer) Scan(ctx context.Context) ([]geom.PointCloud, error) {
	if !a.HasFrame() {
		return nil, ErrNoFrame
	}

	img := a.frame
	rect := img.Bounds()
	w, h := rect.Dx(), rect.Dy()
	cats := a.settings.Categories

	zones := make([]zone, len(cats))
	rowMin, rowMax := h, 0
	for i, c := range cats {
		zones[i].area = c.Region.Resolve(w, h)
		for _, ex := range c.Exclude {
			if b := ex.Resolve(w, h); !b.Empty() {
				zones[i].exclude = append(zones[i].exclude, b)
			}
		}
		if !zones[i].area.Empty() {
			rowMin = min(rowMin, zones[i].area.Y)
			rowMax = max(rowMax, zones[i].area.Y+zones[i].area.H)
		}
	}
	rowMin = max(rowMin, a.settings.IgnoreTop)
	rowMax = min(rowMax, h-a.settings.IgnoreBottom)

	clouds := make([]geom.PointCloud, len(cats))
	results := make(chan hit, a.settings.ChannelCapacity)
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for r := range results {
			clouds[r.cat].Add(geom.Pt(r.x, r.y))
		}
	}()

	var dropped atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.settings.Workers)
	for y := rowMin; y < rowMax; y++ {
		if !rowInAnyZone(zones, y) {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a.scanRow(img, y, w, zones, results, &dropped)
			return nil
		})
	}
	err := g.Wait()
	close(results)
	<-collected

	if n := dropped.Load(); n > 0 {
		a.log.Error("scan queue full, pixels dropped", "dropped", n, "capacity", a.settings.ChannelCapacity)
	}
	if err != nil {
		return nil, fmt.Errorf("perception: scan: %w", err)
	}
	return clouds, nil
}

func rowInAnyZone(zones []zone, y int) bool {
	for i := range zones {
		if y >= zones[i].area.Y && y < zones[i].area.Y+zones[i].area.H {
			return true
		}
	}
	return false
}

func (a *Analyzer) scanRow(img *image.RGBA, y, w int, zones []zone, out chan<- hit, dropped *atomic.Int64) {
	cats := a.settings.Categories
	minAlpha := a.settings.MinAlpha
	off := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
	row := img.Pix[off : off+w*4]

	for x := 0; x < w; x++ {
		px := row[x*4 : x*4+4 : x*4+4]
		if px[3] < minAlpha {
			continue
		}
		for ci := range cats {
			if !zones[ci].contains(x, y) {
				continue
			}
			if !cats[ci].Detection.MatchRGB(px[0], px[1], px[2]) {
				continue
			}
			select {
			case out <- hit{cat: ci, x: x, y: y}:
			default:
				dropped.Add(1)
			}
			break
		}
	}
}
