// Package perception turns a captured game frame into the structured view the
// combat controller reasons about: stat bar percentages, mob name plates and
// the selected-target marker.
//
// A frame is scanned once per tick. Every pixel inside a category's region is
// tested against that category's colors in table order and the first match
// claims the pixel. Matches are collected into one point cloud per category
// and then converted into entities.
package perception

import (
	"fmt"

	"flyff-farm-bot/internal/geom"
)

// MobType is the aggression class of a mob, read from its name plate color.
type MobType int

const (
	MobPassive MobType = iota
	MobAggressive
)

func (m MobType) String() string {
	switch m {
	case MobPassive:
		return "passive"
	case MobAggressive:
		return "aggressive"
	default:
		return fmt.Sprintf("MobType(%d)", int(m))
	}
}

// TargetType tells mob name plates apart from the target marker.
type TargetType int

const (
	TargetMob TargetType = iota
	TargetMarker
)

// AttackCoordsMargin is how far below a name plate the cursor lands when
// clicking a mob. The name plate itself is not clickable, the model beneath it
// is.
const AttackCoordsMargin = 5

// Target is a detected entity for a single frame.
type Target struct {
	Type   TargetType
	Mob    MobType
	Bounds geom.Bounds
}

// AttackCoords returns the click point for the target.
func (t Target) AttackCoords() geom.Point {
	p := t.Bounds.BottomCenter()
	p.Y += AttackCoordsMargin
	return p
}

func (t Target) String() string {
	if t.Type == TargetMarker {
		return "marker" + t.Bounds.String()
	}
	return t.Mob.String() + t.Bounds.String()
}
