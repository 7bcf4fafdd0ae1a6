package perception

import (
	"flyff-farm-bot/internal/colormatch"
	"flyff-farm-bot/internal/geom"
)

// Kind says how a category's point cloud is interpreted after a scan.
type Kind int

const (
	KindStat Kind = iota
	KindMover
	KindMarker
)

// Stat identifies one of the tracked progress bars.
type Stat int

const (
	StatHP Stat = iota
	StatMP
	StatFP
	StatTargetHP
	StatTargetMP
	statCount
)

var statNames = [...]string{"hp", "mp", "fp", "target_hp", "target_mp"}

func (s Stat) String() string {
	if s < 0 || s >= statCount {
		return "unknown"
	}
	return statNames[s]
}

// ParseStat returns the stat with the given name.
func ParseStat(name string) (Stat, bool) {
	for i, n := range statNames {
		if n == name {
			return Stat(i), true
		}
	}
	return 0, false
}

// Region is a scan rectangle in frame coordinates. Negative values are
// measured from the right or bottom edge of the frame, and a zero MaxX or
// MaxY extends the region to that edge.
type Region struct {
	MinX int `yaml:"min_x"`
	MinY int `yaml:"min_y"`
	MaxX int `yaml:"max_x"`
	MaxY int `yaml:"max_y"`
}

// Resolve returns the region as half-open bounds clipped to a w×h frame.
func (r Region) Resolve(w, h int) geom.Bounds {
	edge := func(v, size int, far bool) int {
		switch {
		case v < 0:
			v += size
		case v == 0 && far:
			v = size
		}
		return min(max(v, 0), size)
	}
	minX, maxX := edge(r.MinX, w, false), edge(r.MaxX, w, true)
	minY, maxY := edge(r.MinY, h, false), edge(r.MaxY, h, true)
	if maxX <= minX || maxY <= minY {
		return geom.Bounds{}
	}
	return geom.Rect(minX, minY, maxX-minX, maxY-minY)
}

// FullFrame covers the whole frame.
var FullFrame = Region{}

// Category is one row of the color table.
type Category struct {
	Name      string
	Kind      Kind
	Stat      Stat
	Mob       MobType
	Region    Region
	Exclude   []Region
	Detection colormatch.Detection
}

// DefaultCategories returns the color table for an 800×600 client. Order
// matters: earlier rows win pixels matching several categories.
func DefaultCategories() []Category {
	statusArea := Region{MinX: 0, MinY: 0, MaxX: 250, MaxY: 110}
	targetArea := Region{MinX: 250, MinY: 0, MaxX: -250, MaxY: 60}

	hp := []colormatch.Color{
		colormatch.RGB(174, 18, 55, 2), colormatch.RGB(188, 24, 62, 2),
		colormatch.RGB(204, 30, 70, 2), colormatch.RGB(220, 36, 78, 2),
	}
	mp := []colormatch.Color{
		colormatch.RGB(20, 84, 196, 2), colormatch.RGB(36, 132, 220, 2),
		colormatch.RGB(44, 164, 228, 2), colormatch.RGB(56, 188, 232, 2),
	}
	fp := []colormatch.Color{
		colormatch.RGB(45, 230, 29, 2), colormatch.RGB(28, 172, 28, 2),
		colormatch.RGB(44, 124, 52, 2), colormatch.RGB(20, 146, 20, 2),
	}

	return []Category{
		{Name: "hp", Kind: KindStat, Stat: StatHP, Region: statusArea, Detection: colormatch.NewDetection(hp...)},
		{Name: "mp", Kind: KindStat, Stat: StatMP, Region: statusArea, Detection: colormatch.NewDetection(mp...)},
		{Name: "fp", Kind: KindStat, Stat: StatFP, Region: statusArea, Detection: colormatch.NewDetection(fp...)},
		{Name: "target_hp", Kind: KindStat, Stat: StatTargetHP, Region: targetArea, Detection: colormatch.NewDetection(hp...)},
		{Name: "target_mp", Kind: KindStat, Stat: StatTargetMP, Region: targetArea, Detection: colormatch.NewDetection(mp...)},
		{
			Name: "marker", Kind: KindMarker, Region: FullFrame,
			Exclude:   []Region{statusArea, targetArea},
			Detection: colormatch.NewDetection(
				colormatch.RGB(131, 148, 205, 5),
				colormatch.RGB(246, 90, 106, 5),
			),
		},
		{
			Name: "passive", Kind: KindMover, Mob: MobPassive, Region: FullFrame,
			Exclude:   []Region{statusArea, targetArea},
			Detection: colormatch.NewDetection(colormatch.RGB(234, 234, 149, 5)),
		},
		{
			Name: "aggressive", Kind: KindMover, Mob: MobAggressive, Region: FullFrame,
			Exclude:   []Region{statusArea, targetArea},
			Detection: colormatch.NewDetection(colormatch.RGB(179, 23, 23, 5)),
		},
	}
}
