package perception

import (
	"context"

	"flyff-farm-bot/internal/geom"
)

// Snapshot is everything the combat controller reads for one tick.
type Snapshot struct {
	Stats ClientStats
	Mobs  []Target

	Marker    Target
	HasMarker bool
	// MarkerDistance is the pixel distance from the frame center to the
	// bottom-center of the marker. Zero without a marker.
	MarkerDistance float64

	Center geom.Point
}

// Analyze scans the current frame, folds stat widths into the tracked bars
// and extracts mobs and the target marker.
func (a *Analyzer) Analyze(ctx context.Context) (Snapshot, error) {
	clouds, err := a.Scan(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	s := a.settings
	now := a.clock.Now()
	rect := a.frame.Bounds()
	snap := Snapshot{Center: geom.Pt(rect.Dx()/2, rect.Dy()/2)}

	for i, c := range s.Categories {
		cloud := &clouds[i]
		switch c.Kind {
		case KindStat:
			if bar := a.stats.Bar(c.Stat); bar != nil {
				bar.Update(cloud.ToBounds().W, now)
			}
		case KindMover:
			snap.Mobs = append(snap.Mobs, MergeCloudIntoMobs(cloud, c.Mob, s)...)
		case KindMarker:
			if m, ok := LargestMarker(cloud, s); ok && (!snap.HasMarker || m.Bounds.Area() > snap.Marker.Bounds.Area()) {
				snap.Marker, snap.HasMarker = m, true
			}
		}
	}

	if snap.HasMarker {
		snap.MarkerDistance = snap.Center.Distance(snap.Marker.Bounds.BottomCenter())
	}
	a.stats.TargetOnScreen = snap.HasMarker
	snap.Stats = a.stats

	a.log.Debug("frame analyzed",
		"mobs", len(snap.Mobs),
		"marker", snap.HasMarker,
		"hp", a.stats.HP.Value, "mp", a.stats.MP.Value, "fp", a.stats.FP.Value,
		"target_hp", a.stats.TargetHP.Value, "target_mp", a.stats.TargetMP.Value,
	)
	return snap, nil
}

// MergeCloudIntoMobs clusters a name plate cloud and keeps the clusters whose
// width passes the size filter.
func MergeCloudIntoMobs(cloud *geom.PointCloud, mob MobType, s Settings) []Target {
	var mobs []Target
	for _, b := range cloud.Cluster(s.ClusterGapX, s.ClusterGapY) {
		if b.W <= s.MobMinWidth || b.W >= s.MobMaxWidth {
			continue
		}
		mobs = append(mobs, Target{Type: TargetMob, Mob: mob, Bounds: b})
	}
	return mobs
}

// LargestMarker returns the marker cluster with the largest area. Marker
// clusters are not size filtered.
func LargestMarker(cloud *geom.PointCloud, s Settings) (Target, bool) {
	if cloud.Len() == 0 || cloud.Len() < s.MarkerMinPoints {
		return Target{}, false
	}

	var best geom.Bounds
	found := false
	for _, b := range cloud.Cluster(s.ClusterGapX, s.ClusterGapY) {
		if !found || b.Area() > best.Area() {
			best, found = b, true
		}
	}
	if !found {
		return Target{}, false
	}
	return Target{Type: TargetMarker, Bounds: best}, true
}

// NearestMob returns the mob closest to center whose attack point is within
// maxDistance and outside every avoided rectangle.
func NearestMob(mobs []Target, center geom.Point, maxDistance float64, avoided []geom.Bounds) (Target, bool) {
	var best Target
	bestDist := maxDistance
	found := false

next:
	for _, m := range mobs {
		coords := m.AttackCoords()
		for _, b := range avoided {
			if b.Contains(coords) {
				continue next
			}
		}
		d := center.Distance(coords)
		if d <= bestDist && (!found || d < bestDist) {
			best, bestDist, found = m, d, true
		}
	}
	return best, found
}
