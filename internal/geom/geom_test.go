package geom

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestClusterByDistanceExample(t *testing.T) {
	points := []Point{{0, 0}, {9, 1}, {5, 1}, {15, 5}, {17, 3}}

	got := ClusterByDistance(points, 5, AxisX)

	want := [][]Point{
		{{0, 0}, {5, 1}, {9, 1}},
		{{15, 5}, {17, 3}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("clusters = %v, want %v", got, want)
	}
}

func TestClusterByDistanceEmpty(t *testing.T) {
	if got := ClusterByDistance(nil, 5, AxisX); len(got) != 0 {
		t.Fatalf("expected no clusters, got %v", got)
	}
}

func TestClusterByDistanceSinglePoint(t *testing.T) {
	got := ClusterByDistance([]Point{{3, 4}}, 0, AxisY)
	if len(got) != 1 || len(got[0]) != 1 || got[0][0] != (Point{3, 4}) {
		t.Fatalf("single point should form its own cluster, got %v", got)
	}
}

func TestClusterByDistanceComparesWithLastAddedPoint(t *testing.T) {
	// 0 -> 4 -> 8 -> 12: each step is within 4 of the previous point even
	// though 12 is far from the start of the cluster.
	points := []Point{{12, 0}, {0, 0}, {8, 0}, {4, 0}}
	got := ClusterByDistance(points, 4, AxisX)
	if len(got) != 1 {
		t.Fatalf("expected a single chained cluster, got %v", got)
	}
}

func TestClusterByDistancePartitionProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 200; round++ {
		n := rng.Intn(60)
		gap := rng.Intn(10)
		axis := Axis(rng.Intn(2))

		points := make([]Point, n)
		for i := range points {
			points[i] = Point{X: rng.Intn(200), Y: rng.Intn(200)}
		}
		counts := map[Point]int{}
		for _, p := range points {
			counts[p]++
		}

		clusters := ClusterByDistance(points, gap, axis)

		total := 0
		for ci, cluster := range clusters {
			if len(cluster) == 0 {
				t.Fatalf("round %d: empty cluster", round)
			}
			for i, p := range cluster {
				counts[p]--
				total++
				if i > 0 && axis.Of(p)-axis.Of(cluster[i-1]) > gap {
					t.Fatalf("round %d: gap inside cluster exceeds %d", round, gap)
				}
			}
			if ci > 0 {
				prev := clusters[ci-1]
				if axis.Of(cluster[0])-axis.Of(prev[len(prev)-1]) <= gap {
					t.Fatalf("round %d: adjacent clusters should have been joined", round)
				}
			}
		}
		if total != n {
			t.Fatalf("round %d: clustered %d points, want %d", round, total, n)
		}
		for p, c := range counts {
			if c != 0 {
				t.Fatalf("round %d: point %v appears %d extra times", round, p, -c)
			}
		}
	}
}

func TestToBounds(t *testing.T) {
	pc := NewPointCloud(3)
	pc.Add(Pt(5, 3))
	pc.Add(Pt(7, 9))
	pc.Add(Pt(10, 5))

	if got, want := pc.ToBounds(), Rect(5, 3, 5, 6); got != want {
		t.Fatalf("ToBounds = %v, want %v", got, want)
	}
}

func TestToBoundsEmpty(t *testing.T) {
	b := NewPointCloud(0).ToBounds()
	if !b.Empty() || b != (Bounds{}) {
		t.Fatalf("empty cloud should give zero bounds, got %v", b)
	}
}

func TestClusterTwoPass(t *testing.T) {
	pc := NewPointCloud(0)
	// Two name plates stacked in the same column, 20px apart vertically.
	for x := 100; x < 140; x++ {
		pc.Add(Pt(x, 50))
		pc.Add(Pt(x, 51))
		pc.Add(Pt(x, 70))
	}
	// A third one far to the right.
	for x := 400; x < 420; x++ {
		pc.Add(Pt(x, 200))
	}

	got := pc.Cluster(50, 3)
	want := []Bounds{Rect(100, 50, 39, 1), Rect(100, 70, 39, 0), Rect(400, 200, 19, 0)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Cluster = %v, want %v", got, want)
	}
}

func TestContainsInclusive(t *testing.T) {
	b := Rect(10, 10, 5, 5)
	for _, p := range []Point{{10, 10}, {15, 15}, {10, 15}, {12, 12}} {
		if !b.Contains(p) {
			t.Errorf("%v should contain %v", b, p)
		}
	}
	for _, p := range []Point{{9, 10}, {16, 15}, {12, 16}} {
		if b.Contains(p) {
			t.Errorf("%v should not contain %v", b, p)
		}
	}
}

func TestGrowBy(t *testing.T) {
	tests := []struct {
		name string
		in   Bounds
		px   int
		want Bounds
	}{
		{"centered", Rect(100, 100, 40, 40), 20, Rect(90, 90, 60, 60)},
		{"saturates at origin", Rect(3, 0, 10, 10), 20, Rect(0, 0, 30, 30)},
		{"zero", Rect(5, 5, 1, 1), 0, Rect(5, 5, 1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.GrowBy(tt.px)
			if got != tt.want {
				t.Fatalf("GrowBy = %v, want %v", got, tt.want)
			}
			if got.W-tt.in.W != tt.px || got.H-tt.in.H != tt.px {
				t.Fatalf("size grew by %d/%d, want %d", got.W-tt.in.W, got.H-tt.in.H, tt.px)
			}
			if got.X < 0 || got.Y < 0 {
				t.Fatalf("origin underflowed: %v", got)
			}
		})
	}
}

func TestMergeBounds(t *testing.T) {
	outer := Rect(0, 0, 100, 100)
	inner := Rect(10, 10, 20, 20)
	partial := Rect(90, 90, 20, 20)
	disjoint := Rect(300, 300, 5, 5)

	tests := []struct {
		name string
		a, b Bounds
		want Bounds
		ok   bool
	}{
		{"contains", outer, inner, outer, true},
		{"identical", inner, inner, inner, true},
		{"partial overlap", outer, partial, Bounds{}, false},
		{"disjoint", inner, disjoint, Bounds{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.MergeBounds(tt.b)
			rev, revOK := tt.b.MergeBounds(tt.a)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("merge = %v,%v want %v,%v", got, ok, tt.want, tt.ok)
			}
			if rev != got || revOK != ok {
				t.Fatalf("merge is not symmetric: %v,%v vs %v,%v", got, ok, rev, revOK)
			}
		})
	}
}
