// Package colormatch compares pixels against reference colors.
//
// Matching runs once per pixel per category during a frame scan, so every
// function here works on plain values and never allocates.
package colormatch

import (
	"fmt"
	"image/color"
)

// Model selects how a reference color is compared.
type Model uint8

const (
	ModelRGB Model = iota
	ModelHSV
)

// HSV is a color in hue/saturation/value space. H is in degrees [0,360),
// S and V are scaled to [0,255].
type HSV struct {
	H uint16
	S uint8
	V uint8
}

// Color is one reference color with its tolerance. RGB colors use a single
// per-channel tolerance, HSV colors use one tolerance per axis.
type Color struct {
	Model     Model
	R, G, B   uint8
	Tolerance uint8

	HSV    HSV
	HSVTol HSV
}

// RGB returns an RGB reference color matching every channel within tol.
func RGB(r, g, b, tol uint8) Color {
	return Color{Model: ModelRGB, R: r, G: g, B: b, Tolerance: tol}
}

// HSVColor returns an HSV reference color with per-axis tolerances.
func HSVColor(h uint16, s, v uint8, tolH uint16, tolS, tolV uint8) Color {
	return Color{
		Model:  ModelHSV,
		HSV:    HSV{H: h, S: s, V: v},
		HSVTol: HSV{H: tolH, S: tolS, V: tolV},
	}
}

// MatchRGB reports whether the pixel r,g,b is within tolerance of c.
//
// Hue distance is the plain absolute difference in degrees; it does not wrap
// around 0/360, so reds split across the boundary do not match each other.
func (c Color) MatchRGB(r, g, b uint8) bool {
	if c.Model == ModelHSV {
		px := ToHSV(r, g, b)
		return absDiff16(px.H, c.HSV.H) <= c.HSVTol.H &&
			absDiff8(px.S, c.HSV.S) <= c.HSVTol.S &&
			absDiff8(px.V, c.HSV.V) <= c.HSVTol.V
	}
	return absDiff8(r, c.R) <= c.Tolerance &&
		absDiff8(g, c.G) <= c.Tolerance &&
		absDiff8(b, c.B) <= c.Tolerance
}

// Match reports whether px is within tolerance of c. Alpha is ignored.
func (c Color) Match(px color.RGBA) bool {
	return c.MatchRGB(px.R, px.G, px.B)
}

func (c Color) String() string {
	if c.Model == ModelHSV {
		return fmt.Sprintf("hsv(%d,%d,%d ±%d/%d/%d)", c.HSV.H, c.HSV.S, c.HSV.V, c.HSVTol.H, c.HSVTol.S, c.HSVTol.V)
	}
	return fmt.Sprintf("rgb(%d,%d,%d ±%d)", c.R, c.G, c.B, c.Tolerance)
}

// ToHSV converts an RGB pixel to HSV using integer arithmetic.
func ToHSV(r, g, b uint8) HSV {
	maxC := max(r, g, b)
	minC := min(r, g, b)
	delta := int(maxC) - int(minC)

	out := HSV{V: maxC}
	if maxC == 0 || delta == 0 {
		return out
	}
	out.S = uint8(delta * 255 / int(maxC))

	var h int
	switch maxC {
	case r:
		h = 60 * (int(g) - int(b)) / delta
	case g:
		h = 120 + 60*(int(b)-int(r))/delta
	default:
		h = 240 + 60*(int(r)-int(g))/delta
	}
	if h < 0 {
		h += 360
	}
	out.H = uint16(h)
	return out
}

func absDiff8(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

func absDiff16(a, b uint16) uint16 {
	if a > b {
		return a - b
	}
	return b - a
}
