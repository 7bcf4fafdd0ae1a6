package geom

import "fmt"

// Bounds is an axis-aligned rectangle anchored at its top-left corner.
// W and H are never negative.
type Bounds struct {
	X int
	Y int
	W int
	H int
}

// Rect is shorthand for Bounds{X: x, Y: y, W: w, H: h}.
func Rect(x, y, w, h int) Bounds {
	return Bounds{X: x, Y: y, W: w, H: h}
}

// Center returns the middle of the rectangle.
func (b Bounds) Center() Point {
	return Point{X: b.X + b.W/2, Y: b.Y + b.H/2}
}

// BottomCenter returns the midpoint of the bottom edge.
func (b Bounds) BottomCenter() Point {
	return Point{X: b.X + b.W/2, Y: b.Y + b.H}
}

// Area returns W*H.
func (b Bounds) Area() int {
	return b.W * b.H
}

// Empty reports whether the rectangle has no area. Callers treat an empty
// rectangle as "nothing detected".
func (b Bounds) Empty() bool {
	return b.W == 0 || b.H == 0
}

// Contains reports whether p lies inside b. Both edges are inclusive.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.X+b.W &&
		p.Y >= b.Y && p.Y <= b.Y+b.H
}

// ContainsBounds reports whether other lies entirely inside b.
func (b Bounds) ContainsBounds(other Bounds) bool {
	return other.X >= b.X && other.Y >= b.Y &&
		other.X+other.W <= b.X+b.W &&
		other.Y+other.H <= b.Y+b.H
}

// GrowBy returns b expanded by px pixels in each dimension, centered on the
// original rectangle. The origin saturates at zero, the size always grows by
// exactly px.
func (b Bounds) GrowBy(px int) Bounds {
	if px <= 0 {
		return b
	}
	half := px / 2
	return Bounds{
		X: max(b.X-half, 0),
		Y: max(b.Y-half, 0),
		W: b.W + px,
		H: b.H + px,
	}
}

// MergeBounds returns the larger rectangle when one of b and other fully
// contains the other one. Partial overlaps and disjoint rectangles do not
// merge. The operation is symmetric.
func (b Bounds) MergeBounds(other Bounds) (Bounds, bool) {
	switch {
	case b.ContainsBounds(other):
		return b, true
	case other.ContainsBounds(b):
		return other, true
	default:
		return Bounds{}, false
	}
}

func (b Bounds) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", b.X, b.Y, b.W, b.H)
}
