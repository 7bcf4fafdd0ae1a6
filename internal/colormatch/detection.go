package colormatch

import "image/color"

// Detection matches a pixel against any of its reference colors.
// It is immutable after construction and safe to share between scan workers.
type Detection struct {
	Colors []Color
}

// NewDetection returns a detection over colors.
func NewDetection(colors ...Color) Detection {
	return Detection{Colors: colors}
}

// MatchRGB reports whether r,g,b matches at least one reference color.
func (d Detection) MatchRGB(r, g, b uint8) bool {
	for i := range d.Colors {
		if d.Colors[i].MatchRGB(r, g, b) {
			return true
		}
	}
	return false
}

// Match reports whether px matches at least one reference color.
func (d Detection) Match(px color.RGBA) bool {
	return d.MatchRGB(px.R, px.G, px.B)
}

// Empty reports whether the detection has no reference colors and so can
// never match.
func (d Detection) Empty() bool {
	return len(d.Colors) == 0
}
