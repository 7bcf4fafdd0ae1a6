package geom

import "slices"

// PointCloud is a set of pixels sharing one classification. Insertion order
// carries no meaning.
type PointCloud struct {
	Points []Point
}

// NewPointCloud returns a cloud with room for capacity points.
func NewPointCloud(capacity int) *PointCloud {
	return &PointCloud{Points: make([]Point, 0, capacity)}
}

// Add appends p to the cloud.
func (pc *PointCloud) Add(p Point) {
	pc.Points = append(pc.Points, p)
}

// Len returns the number of points.
func (pc *PointCloud) Len() int {
	return len(pc.Points)
}

// Reset empties the cloud, keeping its storage.
func (pc *PointCloud) Reset() {
	pc.Points = pc.Points[:0]
}

// ToBounds returns the extents of the cloud. An empty cloud yields the zero
// rectangle.
func (pc *PointCloud) ToBounds() Bounds {
	return BoundsOf(pc.Points)
}

// Cluster splits the cloud into X runs separated by more than gapX and then
// splits each run into Y runs separated by more than gapY. Every resulting
// cluster is returned as its bounding rectangle.
func (pc *PointCloud) Cluster(gapX, gapY int) []Bounds {
	if len(pc.Points) == 0 {
		return nil
	}
	points := slices.Clone(pc.Points)

	var out []Bounds
	for _, column := range ClusterByDistance(points, gapX, AxisX) {
		for _, cluster := range ClusterByDistance(column, gapY, AxisY) {
			out = append(out, BoundsOf(cluster))
		}
	}
	return out
}

// BoundsOf returns the extents of points. Width and height are the distance
// between the extreme coordinates, so a single point has zero size.
func BoundsOf(points []Point) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}

	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	return Bounds{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// ClusterByDistance sorts points along axis and walks them once, starting a
// new cluster whenever the gap to the last point added to the current
// cluster exceeds maxGap. The input slice is reordered in place. Clusters
// share storage with points.
//
// No input points yields an empty result, never a single empty cluster.
func ClusterByDistance(points []Point, maxGap int, axis Axis) [][]Point {
	if len(points) == 0 {
		return nil
	}

	slices.SortStableFunc(points, func(a, b Point) int {
		return axis.Of(a) - axis.Of(b)
	})

	var clusters [][]Point
	start := 0
	for i := 1; i < len(points); i++ {
		if axis.Of(points[i])-axis.Of(points[i-1]) > maxGap {
			clusters = append(clusters, points[start:i:i])
			start = i
		}
	}
	return append(clusters, points[start:len(points):len(points)])
}
