package config

import (
	"fmt"

	"flyff-farm-bot/internal/colormatch"
	"flyff-farm-bot/internal/perception"
)

// Perception overrides the scan defaults. Zero values keep the default.
type Perception struct {
	IgnoreTop       *int `yaml:"ignore_top,omitempty"`
	IgnoreBottom    *int `yaml:"ignore_bottom,omitempty"`
	ChannelCapacity int  `yaml:"channel_capacity,omitempty"`
	Workers         int  `yaml:"workers,omitempty"`
	MobMinWidth     int  `yaml:"mob_min_width,omitempty"`
	MobMaxWidth     int  `yaml:"mob_max_width,omitempty"`
	MarkerMinPoints int  `yaml:"marker_min_points,omitempty"`

	// Categories is keyed by category name (hp, mp, fp, target_hp,
	// target_mp, marker, passive, aggressive).
	Categories map[string]CategoryConfig `yaml:"categories,omitempty"`
}

// CategoryConfig overrides the colors or region of one category.
type CategoryConfig struct {
	Region  *perception.Region  `yaml:"region,omitempty"`
	Exclude []perception.Region `yaml:"exclude,omitempty"`
	Colors  []ColorConfig       `yaml:"colors,omitempty"`
}

// ColorConfig is either an RGB color with one tolerance or an HSV color with
// per-axis tolerances.
type ColorConfig struct {
	RGB       *[3]uint8 `yaml:"rgb,omitempty"`
	Tolerance uint8     `yaml:"tolerance,omitempty"`

	HSV    *[3]int `yaml:"hsv,omitempty"`
	HSVTol *[3]int `yaml:"hsv_tolerance,omitempty"`
}

func (cc ColorConfig) color() (colormatch.Color, error) {
	switch {
	case cc.RGB != nil && cc.HSV != nil:
		return colormatch.Color{}, fmt.Errorf("both rgb and hsv set")
	case cc.RGB != nil:
		return colormatch.RGB(cc.RGB[0], cc.RGB[1], cc.RGB[2], cc.Tolerance), nil
	case cc.HSV != nil:
		h, s, v := cc.HSV[0], cc.HSV[1], cc.HSV[2]
		if h < 0 || h >= 360 || s < 0 || s > 255 || v < 0 || v > 255 {
			return colormatch.Color{}, fmt.Errorf("hsv %v out of range", *cc.HSV)
		}
		tol := [3]int{}
		if cc.HSVTol != nil {
			tol = *cc.HSVTol
		}
		if tol[0] < 0 || tol[0] > 360 || tol[1] < 0 || tol[1] > 255 || tol[2] < 0 || tol[2] > 255 {
			return colormatch.Color{}, fmt.Errorf("hsv_tolerance %v out of range", tol)
		}
		return colormatch.HSVColor(uint16(h), uint8(s), uint8(v), uint16(tol[0]), uint8(tol[1]), uint8(tol[2])), nil
	default:
		return colormatch.Color{}, fmt.Errorf("color needs rgb or hsv")
	}
}

func (p *Perception) validate() []error {
	var errs []error
	known := make(map[string]bool)
	for _, c := range perception.DefaultCategories() {
		known[c.Name] = true
	}
	for name, cc := range p.Categories {
		if !known[name] {
			errs = append(errs, fmt.Errorf("perception.categories: unknown category %q", name))
			continue
		}
		for i, col := range cc.Colors {
			if _, err := col.color(); err != nil {
				errs = append(errs, fmt.Errorf("perception.categories.%s.colors[%d]: %w", name, i, err))
			}
		}
	}
	if p.MobMaxWidth != 0 && p.MobMinWidth >= p.MobMaxWidth {
		errs = append(errs, fmt.Errorf("perception: mob_min_width %d >= mob_max_width %d", p.MobMinWidth, p.MobMaxWidth))
	}
	return errs
}

// Settings returns the perception defaults with the configured overrides
// applied. The configuration must have been validated.
func (p *Perception) Settings() perception.Settings {
	s := perception.DefaultSettings()
	if p.IgnoreTop != nil {
		s.IgnoreTop = *p.IgnoreTop
	}
	if p.IgnoreBottom != nil {
		s.IgnoreBottom = *p.IgnoreBottom
	}
	if p.ChannelCapacity > 0 {
		s.ChannelCapacity = p.ChannelCapacity
	}
	if p.Workers > 0 {
		s.Workers = p.Workers
	}
	if p.MobMinWidth > 0 {
		s.MobMinWidth = p.MobMinWidth
	}
	if p.MobMaxWidth > 0 {
		s.MobMaxWidth = p.MobMaxWidth
	}
	if p.MarkerMinPoints > 0 {
		s.MarkerMinPoints = p.MarkerMinPoints
	}

	for i := range s.Categories {
		cc, ok := p.Categories[s.Categories[i].Name]
		if !ok {
			continue
		}
		if cc.Region != nil {
			s.Categories[i].Region = *cc.Region
		}
		if cc.Exclude != nil {
			s.Categories[i].Exclude = cc.Exclude
		}
		if len(cc.Colors) > 0 {
			colors := make([]colormatch.Color, 0, len(cc.Colors))
			for _, col := range cc.Colors {
				if c, err := col.color(); err == nil {
					colors = append(colors, c)
				}
			}
			s.Categories[i].Detection = colormatch.NewDetection(colors...)
		}
	}
	return s
}
