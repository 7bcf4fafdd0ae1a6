// Package geom provides the screen-space primitives shared by the perception
// pipeline and the combat controller: points, axis-aligned bounds and point
// clouds with axis clustering.
//
// Coordinates are pixel offsets from the top-left corner of a captured frame
// and are never negative. Operations that could move an edge below zero
// saturate at zero instead.
package geom

import "math"

// Point is a pixel coordinate.
type Point struct {
	X int
	Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Distance returns the Euclidean distance between p and other.
func (p Point) Distance(other Point) float64 {
	dx := float64(p.X - other.X)
	dy := float64(p.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Axis selects the coordinate a clustering pass sorts and splits on.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// Of returns the coordinate of p on the axis.
func (a Axis) Of(p Point) int {
	if a == AxisY {
		return p.Y
	}
	return p.X
}

func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}
